// Package kereso embeds the kereso fuzzy Hungarian search engine in a Go
// program without the HTTP server or a database.
//
// The caller supplies the candidate rows; the Searcher ranks them exactly
// like the /api/ai-search endpoint, including suffix stemming, synonyms,
// edit-distance matching and topic fallback queries.
//
//	s, _ := kereso.New(kereso.WithLinks("https://example.hu", "/blog", "/termek"))
//	res, _ := s.Search(ctx, "nem tudok aludni", posts, products, 5)
//	for _, h := range res.Hits {
//	    fmt.Println(h.Type, h.Title, h.URL)
//	}
//
// Rows are plain maps, for example decoded JSON or pgx.RowToMap output.
// Titles are read from "title"/"name", slugs from "slug", and text from the
// usual description columns.
package kereso
