package model

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

// Validity is the per-question judgment returned by a model.
type Validity string

const (
	ValidityValid    Validity = "Valid"
	ValidityNotValid Validity = "Not Valid"
	ValidityUnknown  Validity = "Unknown"
)

// NormalizeValidity maps free-form validity text to one of the three known
// values. Matching is case-insensitive; anything unrecognized becomes Unknown
// rather than an error, since models do not always follow the schema.
func NormalizeValidity(s string) Validity {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "valid":
		return ValidityValid
	case "not valid", "notvalid", "invalid":
		return ValidityNotValid
	default:
		return ValidityUnknown
	}
}

// UnmarshalJSON normalizes validity strings as they are decoded.
func (v *Validity) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*v = NormalizeValidity(s)
	return nil
}

// Duplicate references another question with overlapping meaning.
type Duplicate struct {
	TableNumber  string `json:"table_number"`
	ItemNumber   string `json:"item_number"`
	QuestionText string `json:"question_text"`
}

// QuestionRecord is one model's judgment of a single survey question.
// TableNumber is a free-form label: surveys label their tables either
// numerically ("1", "2") or textually ("Part I", "Part III").
type QuestionRecord struct {
	QuestionID          string      `json:"question_id"`
	TableNumber         string      `json:"table_number"`
	ItemNumber          string      `json:"item_number"`
	VariableName        string      `json:"variable_name"`
	QuestionText        string      `json:"question_text"`
	Validity            Validity    `json:"validity"`
	Reason              string      `json:"reason"`
	AlternativeQuestion string      `json:"alternative_question"`
	DuplicatesWith      []Duplicate `json:"duplicates_with"`
}

// SortQuestions orders records for report output. Numeric table labels sort
// first by integer value; all other labels follow, ordered case-insensitively.
// The sort is stable, so item order within one table is preserved. Labels like
// "Part II" land in the text bucket instead of raising.
func SortQuestions(questions []QuestionRecord) {
	sort.SliceStable(questions, func(i, j int) bool {
		bi, ni, si := tableSortKey(questions[i].TableNumber)
		bj, nj, sj := tableSortKey(questions[j].TableNumber)
		if bi != bj {
			return bi < bj
		}
		if bi == 0 {
			return ni < nj
		}
		return si < sj
	})
}

// tableSortKey buckets a table label: bucket 0 with an integer key for
// numeric labels, bucket 1 with a lowercased string key for everything else.
func tableSortKey(table string) (bucket, num int, text string) {
	if n, err := strconv.Atoi(strings.TrimSpace(table)); err == nil {
		return 0, n, ""
	}
	return 1, 0, strings.ToLower(table)
}
