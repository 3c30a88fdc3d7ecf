package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_MaxPricePhrases(t *testing.T) {
	for _, phrase := range []string{
		"shoes under 2000",
		"shoes below 2000",
		"shoes less than 2000",
	} {
		t.Run(phrase, func(t *testing.T) {
			parsed := Parse(phrase)

			require.NotNil(t, parsed.MaxPrice)
			assert.Equal(t, 2000.0, *parsed.MaxPrice)
			assert.Nil(t, parsed.MinPrice)
			assert.Equal(t, []string{"shoes"}, parsed.Keywords)
		})
	}
}

func TestParse_MinPricePhrases(t *testing.T) {
	for _, phrase := range []string{
		"laptop above 50000",
		"laptop over 50000",
		"laptop more than 50000",
	} {
		t.Run(phrase, func(t *testing.T) {
			parsed := Parse(phrase)

			require.NotNil(t, parsed.MinPrice)
			assert.Equal(t, 50000.0, *parsed.MinPrice)
			assert.Nil(t, parsed.MaxPrice)
			assert.Equal(t, []string{"laptop"}, parsed.Keywords)
		})
	}
}

func TestParse_PriceRange(t *testing.T) {
	for _, phrase := range []string{
		"headphones between 1000 and 5000",
		"headphones 1000 to 5000",
	} {
		t.Run(phrase, func(t *testing.T) {
			parsed := Parse(phrase)

			require.NotNil(t, parsed.MinPrice)
			require.NotNil(t, parsed.MaxPrice)
			assert.Equal(t, 1000.0, *parsed.MinPrice)
			assert.Equal(t, 5000.0, *parsed.MaxPrice)
			assert.Equal(t, []string{"headphones"}, parsed.Keywords)
		})
	}
}

func TestParse_ColorsAndSizes(t *testing.T) {
	parsed := Parse("red large running shoes")

	assert.Equal(t, []string{"red"}, parsed.Colors)
	assert.Equal(t, []string{"large"}, parsed.Sizes)
	assert.Equal(t, []string{"running", "shoes"}, parsed.Keywords)
}

func TestParse_SizeIsWholeWordOnly(t *testing.T) {
	// "small" must not be extracted out of "smallish", nor "s" out of "shoes".
	parsed := Parse("smallish shoes")

	assert.Empty(t, parsed.Sizes)
	assert.Equal(t, []string{"smallish", "shoes"}, parsed.Keywords)
}

func TestParse_Brand(t *testing.T) {
	parsed := Parse("nike running shoes under 5000")

	assert.Equal(t, []string{"nike"}, parsed.Brands)
	require.NotNil(t, parsed.MaxPrice)
	assert.Equal(t, 5000.0, *parsed.MaxPrice)
	assert.Equal(t, []string{"running", "shoes"}, parsed.Keywords)
}

func TestParse_Combined(t *testing.T) {
	parsed := Parse("blue samsung phone between 10000 and 20000")

	assert.Equal(t, []string{"blue"}, parsed.Colors)
	assert.Equal(t, []string{"samsung"}, parsed.Brands)
	require.NotNil(t, parsed.MinPrice)
	require.NotNil(t, parsed.MaxPrice)
	assert.Equal(t, []string{"phone"}, parsed.Keywords)
	assert.Equal(t, "phone", parsed.Query())
}

func TestParse_NoRulesMatched(t *testing.T) {
	parsed := Parse("wireless headphones")

	assert.Nil(t, parsed.MinPrice)
	assert.Nil(t, parsed.MaxPrice)
	assert.Empty(t, parsed.Colors)
	assert.Empty(t, parsed.Sizes)
	assert.Empty(t, parsed.Brands)
	assert.Equal(t, []string{"wireless", "headphones"}, parsed.Keywords)
}

func TestParse_EmptyPhrase(t *testing.T) {
	parsed := Parse("")

	assert.NotNil(t, parsed.Keywords)
	assert.Empty(t, parsed.Keywords)
	assert.Equal(t, "", parsed.Query())
}
