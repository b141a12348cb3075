package copyright

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOwner(t *testing.T) {
	owner, err := ParseOwner("Dave Jones <dave@example.com>")
	require.NoError(t, err)
	assert.Equal(t, Owner{Name: "Dave Jones", Email: "dave@example.com"}, owner)

	owner, err = ParseOwner("Example Ltd.")
	require.NoError(t, err)
	assert.Equal(t, Owner{Name: "Example Ltd."}, owner)

	_, err = ParseOwner("Broken <unclosed")
	assert.Error(t, err)
	var cfgErr *ConfigError
	assert.ErrorAs(t, err, &cfgErr)

	_, err = ParseOwner("")
	assert.Error(t, err)
}

func TestCopyrightString(t *testing.T) {
	c := Copyright{Author: "Name", Email: "email", Years: NewYearSet(2020)}
	assert.Equal(t, "2020 Name <email>", c.String())

	c = Copyright{Author: "Name", Email: "email", Years: NewYearSet(2019, 2020, 2022)}
	assert.Equal(t, "2019-2022 Name <email>", c.String())

	c = Copyright{Author: "Additional Co", Years: NewYearSet(2021, 2023)}
	assert.Equal(t, "2021-2023 Additional Co", c.String())
}

func TestAggregateGroupsByOwner(t *testing.T) {
	contribs := []Contribution{
		{Author: "A", Email: "a@x.com", Year: 2020, Path: "main.go"},
		{Author: "A", Email: "a@x.com", Year: 2022, Path: "main.go"},
		{Author: "B", Email: "b@x.com", Year: 2021, Path: "main.go"},
		{Author: "A", Email: "a@x.com", Year: 2020, Path: "main.go"},
	}

	result := Aggregate(contribs, nil)
	require.Contains(t, result, "main.go")
	entries := result["main.go"]
	require.Len(t, entries, 2)

	// Most recently active first.
	assert.Equal(t, "2020-2022 A <a@x.com>", entries[0].String())
	assert.Equal(t, "2021 B <b@x.com>", entries[1].String())
}

func TestAggregateAdditionalOwnerSpansAllYears(t *testing.T) {
	contribs := []Contribution{
		{Author: "A", Email: "a@x.com", Year: 2021, Path: "main.go"},
		{Author: "B", Email: "b@x.com", Year: 2023, Path: "main.go"},
	}
	additional := []Owner{{Name: "Additional Co"}}

	result := Aggregate(contribs, additional)
	entries := result["main.go"]
	require.Len(t, entries, 3)

	var synthetic *Copyright
	for i := range entries {
		if entries[i].Author == "Additional Co" {
			synthetic = &entries[i]
		}
	}
	require.NotNil(t, synthetic)
	assert.Equal(t, "2021-2023 Additional Co", synthetic.String())
}

func TestAggregateSortOrder(t *testing.T) {
	contribs := []Contribution{
		{Author: "Zed", Email: "z@x.com", Year: 2020, Path: "f"},
		{Author: "Amy", Email: "a@x.com", Year: 2020, Path: "f"},
		{Author: "Old", Email: "o@x.com", Year: 2010, Path: "f"},
	}
	entries := Aggregate(contribs, nil)["f"]
	require.Len(t, entries, 3)
	// Equal max year breaks ties alphabetically.
	assert.Equal(t, "Amy", entries[0].Author)
	assert.Equal(t, "Zed", entries[1].Author)
	assert.Equal(t, "Old", entries[2].Author)
}

func TestAggregateKeepsDistinctEmailsSeparate(t *testing.T) {
	// Same display name, different addresses: deliberately not merged.
	contribs := []Contribution{
		{Author: "A", Email: "a@home.com", Year: 2020, Path: "f"},
		{Author: "A", Email: "a@work.com", Year: 2021, Path: "f"},
	}
	entries := Aggregate(contribs, nil)["f"]
	assert.Len(t, entries, 2)
}

func TestAggregateGroupsByFile(t *testing.T) {
	contribs := []Contribution{
		{Author: "A", Email: "a@x.com", Year: 2020, Path: "one.go"},
		{Author: "A", Email: "a@x.com", Year: 2021, Path: "two.go"},
	}
	result := Aggregate(contribs, nil)
	require.Len(t, result, 2)
	assert.Equal(t, "2020 A <a@x.com>", result["one.go"][0].String())
	assert.Equal(t, "2021 A <a@x.com>", result["two.go"][0].String())
}
