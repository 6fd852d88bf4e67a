package seed

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSV_HeaderOrder(t *testing.T) {
	in := "age,email,name\n35,alice@example.com,Alice Smith\n22,bob@example.com,Bob Johnson\n"

	records, err := ReadCSV(strings.NewReader(in))
	require.NoError(t, err)

	assert.Equal(t, []Record{
		{Name: "Alice Smith", Email: "alice@example.com", Age: "35"},
		{Name: "Bob Johnson", Email: "bob@example.com", Age: "22"},
	}, records)
}

func TestReadCSV_ShortRow(t *testing.T) {
	records, err := ReadCSV(strings.NewReader("name,email,age\nAlice Smith,alice@example.com\n"))
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, "", records[0].Age)
	assert.Equal(t, 0, records[0].AgeValue())
}

func TestReadCSV_Errors(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""))
	assert.Error(t, err)

	_, err = ReadCSV(strings.NewReader("name,email\nAlice,alice@example.com\n"))
	assert.ErrorContains(t, err, `"age"`)
}

func TestRecord_AgeValue(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"35", 35},
		{" 48 ", 48},
		{"0", 0},
		{"", 0},
		{"abc", 0},
		{"-4", 0},
		{"12.5", 0},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, Record{Age: c.in}.AgeValue(), "age %q", c.in)
	}
}

func TestWriteSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user_data.csv")
	require.NoError(t, WriteSample(path))

	records, err := readFile(path)
	require.NoError(t, err)
	require.Len(t, records, 8)

	assert.Equal(t, Record{Name: "Alice Smith", Email: "alice@example.com", Age: "35"}, records[0])
	assert.Equal(t, "Alma Bechtelar", records[7].Name)

	var ages []int
	for _, r := range records {
		ages = append(ages, r.AgeValue())
	}
	assert.Equal(t, []int{35, 22, 48, 67, 119, 49, 22, 102}, ages)
}
