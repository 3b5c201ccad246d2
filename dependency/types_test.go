// SPDX-License-Identifier: MIT
package dependency_test

import (
	"testing"

	"github.com/anonymoushlmnop/matrix-discovery/dependency"
	"github.com/stretchr/testify/require"
)

// TestRelation_Tags walks every relation through Tag, String and ParseTag.
func TestRelation_Tags(t *testing.T) {
	cases := []struct {
		rel  dependency.Relation
		tag  dependency.Tag
		text string
	}{
		{dependency.Relation{}, dependency.TagNone, "None"},
		{dependency.Relation{Temporal: true}, dependency.TagTemporal, "T,-"},
		{dependency.Relation{Existential: true}, dependency.TagExistential, "-,E"},
		{dependency.Relation{Temporal: true, Existential: true}, dependency.TagBoth, "T,E"},
	}
	for _, tc := range cases {
		t.Run(string(tc.tag), func(t *testing.T) {
			require.Equal(t, tc.tag, tc.rel.Tag())
			require.Equal(t, tc.text, tc.rel.String())
			back, err := dependency.ParseTag(string(tc.tag))
			require.NoError(t, err)
			require.Equal(t, tc.rel, back)
			require.Equal(t, tc.rel.Temporal, tc.rel.Has(dependency.Temporal))
			require.Equal(t, tc.rel.Existential, tc.rel.Has(dependency.Existential))
		})
	}

	r, err := dependency.ParseTag("-")
	require.NoError(t, err)
	require.True(t, r.IsNone())

	_, err = dependency.ParseTag("sometimes")
	require.ErrorIs(t, err, dependency.ErrUnknownTag)
}

// TestGranularity_Parse covers names and the panic on invalid option values.
func TestGranularity_Parse(t *testing.T) {
	g, err := dependency.ParseGranularity("every")
	require.NoError(t, err)
	require.Equal(t, dependency.EveryOccurrence, g)
	require.Equal(t, "every", g.String())

	g, err = dependency.ParseGranularity("")
	require.NoError(t, err)
	require.Equal(t, dependency.FirstOccurrence, g)

	_, err = dependency.ParseGranularity("some")
	require.Error(t, err)

	require.Panics(t, func() { dependency.WithGranularity(dependency.Granularity(9)) })
	require.Equal(t, dependency.DefaultGranularity, dependency.NewOptions().Granularity())
	require.Equal(t, "temporal", dependency.Temporal.String())
	require.Equal(t, "existential", dependency.Existential.String())
}
