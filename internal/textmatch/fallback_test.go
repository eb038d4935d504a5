package textmatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFallbackPlan(t *testing.T) {
	rules := DefaultRules()

	tests := []struct {
		name        string
		query       string
		wantCluster string
		wantQueries []string
	}{
		{
			name:        "hunger",
			query:       "éhség és cukorfüggés",
			wantCluster: "hunger",
			wantQueries: []string{"éhség", "étvágy", "nassolás", "cukoréhség", "fogyás", "testsúly"},
		},
		{
			name:        "trigger inside a longer word",
			query:       "esti nassolás",
			wantCluster: "hunger",
			wantQueries: []string{"éhség", "étvágy", "nassolás", "cukoréhség", "fogyás", "testsúly"},
		},
		{
			name:        "first cluster wins",
			query:       "stresszes vagyok és nem alszom jól",
			wantCluster: "stress",
			wantQueries: []string{"stressz", "szorongás", "feszültség", "relaxáció", "magnézium"},
		},
		{
			name:        "sleep",
			query:       "nem tudok aludni",
			wantCluster: "sleep",
			wantQueries: []string{"alvás", "alvászavar", "álmatlanság", "melatonin", "pihenés"},
		},
		{
			name:        "original query is skipped",
			query:       "Fejfájás",
			wantCluster: "headache",
			wantQueries: []string{"migrén", "feszültség", "magnézium"},
		},
		{
			name:        "long query without cluster",
			query:       "ma reggel a piacon vettem friss zöldséget és gyümölcsöt otthonra",
			wantCluster: BroadCluster,
			wantQueries: []string{"egészség", "immunrendszer", "vitamin", "életmód", "táplálkozás"},
		},
		{
			name:  "short query without cluster",
			query: "piros alma",
		},
		{
			name:  "empty",
			query: "",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cluster, queries := rules.FallbackPlan(tc.query)
			assert.Equal(t, tc.wantCluster, cluster)
			if tc.wantQueries == nil {
				assert.Empty(t, queries)
				return
			}
			assert.Equal(t, tc.wantQueries, queries)
			assert.Equal(t, tc.wantQueries, rules.CandidateQueries(tc.query))
		})
	}
}
