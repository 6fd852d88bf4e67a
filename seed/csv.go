package seed

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"userstream/mapper"

	"github.com/pkg/errors"
)

// columns is the CSV header expected by ReadCSV, in the order WriteSample writes it.
var columns = []string{"name", "email", "age"}

// Record is one CSV row, as read.
type Record struct {
	Name  string `db:"name"`
	Email string `db:"email"`
	Age   string `db:"age"`
}

// AgeValue returns the age as a non-negative integer. Missing, non-numeric and negative ages become 0.
func (r Record) AgeValue() int {

	age, err := strconv.Atoi(strings.TrimSpace(r.Age))
	if err != nil || age < 0 {
		return 0
	}
	return age

}

// ReadCSV reads records from a CSV stream with a name,email,age header. Columns are matched
// by header name, so their order does not matter. Short rows leave the missing fields empty.
func ReadCSV(r io.Reader) ([]Record, error) {

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, errors.New("csv is empty, header row expected")
		}
		return nil, errors.Wrap(err, "failed to read csv header")
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, c := range columns {
		if _, ok := index[c]; !ok {
			return nil, errors.Errorf("csv header is missing column %q", c)
		}
	}

	var records []Record
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "failed to read csv row")
		}

		fields := make(map[string]interface{}, len(columns))
		for _, c := range columns {
			value := ""
			if i := index[c]; i < len(row) {
				value = row[i]
			}
			fields[c] = value
		}

		var rec Record
		if err := mapper.Decode(fields, &rec); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, nil

}

// sample is the data set of the seeding script.
var sample = [][]string{
	{"Alice Smith", "alice@example.com", "35"},
	{"Bob Johnson", "bob@example.com", "22"},
	{"Charlie Brown", "charlie@example.com", "48"},
	{"Dan Altenwerth Jr.", "Molly59@gmail.com", "67"},
	{"Glenda Wisozk", "Miriam21@gmail.com", "119"},
	{"Daniel Fahey IV", "Delia.Lesch11@hotmail.com", "49"},
	{"Ronnie Bechtelar", "Sandra19@yahoo.com", "22"},
	{"Alma Bechtelar", "Shelly_Balistreri22@hotmail.com", "102"},
}

// WriteSample writes the 8-row sample CSV to path, replacing any existing file.
func WriteSample(path string) error {

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "failed to create sample csv")
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(columns); err != nil {
		return errors.Wrap(err, "failed to write csv header")
	}
	if err := w.WriteAll(sample); err != nil {
		return errors.Wrap(err, "failed to write sample rows")
	}

	return f.Close()

}
