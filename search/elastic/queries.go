package elastic

import "encoding/json"

// documentFields lists every stored field of an indexed document; the
// more-like-this query matches candidates over all of them.
var documentFields = []string{"uuid", "title", "description", "brand", "seller_name"}

type pageQuery struct {
	Size        int                 `json:"size"`
	Sort        []map[string]string `json:"sort"`
	SearchAfter []string            `json:"search_after"`
}

// buildPageQuery renders a search-after pagination request: ascending
// by uuid, strictly after the cursor. The empty cursor is the start
// sentinel; it sorts before every uuid.
func buildPageQuery(after string, size int) ([]byte, error) {
	return json.Marshal(pageQuery{
		Size:        size,
		Sort:        []map[string]string{{"uuid.keyword": "asc"}},
		SearchAfter: []string{after},
	})
}

type docRef struct {
	Index string `json:"_index"`
	ID    string `json:"_id"`
}

type moreLikeThisClause struct {
	Fields        []string `json:"fields"`
	Like          []docRef `json:"like"`
	MinTermFreq   int      `json:"min_term_freq"`
	MaxQueryTerms int      `json:"max_query_terms"`
}

type idsClause struct {
	Values []string `json:"values"`
}

type similarQuery struct {
	Size  int `json:"size"`
	Query struct {
		Bool struct {
			Must struct {
				MoreLikeThis moreLikeThisClause `json:"more_like_this"`
			} `json:"must"`
			MustNot struct {
				IDs idsClause `json:"ids"`
			} `json:"must_not"`
		} `json:"bool"`
	} `json:"query"`
}

// buildSimilarQuery renders a more-like-this request for the document
// with the given backend id. The source document is excluded from its
// own results by id, so the response holds at most limit other
// documents.
func buildSimilarQuery(category, id string, limit int) ([]byte, error) {
	var q similarQuery
	q.Size = limit
	q.Query.Bool.Must.MoreLikeThis = moreLikeThisClause{
		Fields:        documentFields,
		Like:          []docRef{{Index: category, ID: id}},
		MinTermFreq:   1,
		MaxQueryTerms: 12,
	}
	q.Query.Bool.MustNot.IDs = idsClause{Values: []string{id}}
	return json.Marshal(q)
}
