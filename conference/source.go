// Copyright 2025 ZoomRx, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package conference

import (
	"sort"
	"strings"
	"time"
)

// Record describes one medical conference edition.
type Record struct {
	Name         string
	Abbreviation string
	Specialty    string
	Location     string
	StartDate    time.Time
	EndDate      time.Time
	URL          string

	// Keywords extend matching beyond the name and specialty,
	// e.g. disease areas the meeting is known for.
	Keywords []string
}

// Source finds conferences relevant to a query.
type Source interface {
	// Lookup returns up to limit records ranked by how well they match
	// the query, best first. An empty slice means nothing matched.
	Lookup(query string, limit int) []Record

	// Catalog returns every record the source can answer about, so
	// callers can tell users what is coverable.
	Catalog() []Record
}

// StaticSource serves a fixed in-memory conference list.
type StaticSource struct {
	records []Record
}

var _ Source = (*StaticSource)(nil)

// NewStaticSource creates a StaticSource over the given records.
// With no records it falls back to the built-in known-conference list.
func NewStaticSource(records ...Record) *StaticSource {
	if len(records) == 0 {
		records = knownConferences()
	}
	return &StaticSource{records: records}
}

// Catalog returns a copy of the source's full record list.
func (s *StaticSource) Catalog() []Record {
	return append([]Record(nil), s.records...)
}

// Lookup ranks records by keyword match count, breaking ties by the
// earlier start date. Records with no matching term are omitted.
func (s *StaticSource) Lookup(query string, limit int) []Record {
	if limit <= 0 {
		limit = DefaultLookupLimit
	}
	q := strings.ToLower(query)

	type scored struct {
		record Record
		score  int
	}
	var matches []scored
	for _, record := range s.records {
		if score := matchScore(q, record); score > 0 {
			matches = append(matches, scored{record: record, score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].score != matches[j].score {
			return matches[i].score > matches[j].score
		}
		return matches[i].record.StartDate.Before(matches[j].record.StartDate)
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}
	out := make([]Record, len(matches))
	for i, m := range matches {
		out[i] = m.record
	}
	return out
}

// DefaultLookupLimit bounds how many conferences a single query returns.
const DefaultLookupLimit = 3

// matchScore counts how strongly the query refers to the record. A direct
// name or abbreviation hit outweighs any number of keyword matches so
// "asco" never loses to a record that shares three disease keywords.
func matchScore(q string, record Record) int {
	score := 0
	if containsWord(q, strings.ToLower(record.Abbreviation)) {
		score += 10
	}
	if name := strings.ToLower(record.Name); name != "" && strings.Contains(q, name) {
		score += 10
	}
	if record.Specialty != "" && strings.Contains(q, strings.ToLower(record.Specialty)) {
		score += 2
	}
	for _, keyword := range record.Keywords {
		if strings.Contains(q, strings.ToLower(keyword)) {
			score++
		}
	}
	return score
}

// containsWord reports whether q contains w as a whole word, so short
// abbreviations like "acc" do not fire inside words like "vaccine".
func containsWord(q, w string) bool {
	if w == "" {
		return false
	}
	idx := 0
	for {
		i := strings.Index(q[idx:], w)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(w)
		leftOK := start == 0 || !isWordChar(q[start-1])
		rightOK := end == len(q) || !isWordChar(q[end])
		if leftOK && rightOK {
			return true
		}
		idx = start + 1
	}
}

func isWordChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// knownConferences is the built-in list of major medical congresses.
func knownConferences() []Record {
	return []Record{
		{
			Name:         "American Society of Clinical Oncology Annual Meeting",
			Abbreviation: "ASCO",
			Specialty:    "oncology",
			Location:     "Chicago, Illinois",
			StartDate:    date(2026, time.May, 29),
			EndDate:      date(2026, time.June, 2),
			URL:          "https://conferences.asco.org/am",
			Keywords:     []string{"cancer", "tumor", "chemotherapy", "immunotherapy"},
		},
		{
			Name:         "European Society for Medical Oncology Congress",
			Abbreviation: "ESMO",
			Specialty:    "oncology",
			Location:     "Berlin, Germany",
			StartDate:    date(2026, time.October, 16),
			EndDate:      date(2026, time.October, 20),
			URL:          "https://www.esmo.org/meeting-calendar/esmo-congress-2026",
			Keywords:     []string{"cancer", "tumor", "europe"},
		},
		{
			Name:         "American College of Cardiology Annual Scientific Session",
			Abbreviation: "ACC",
			Specialty:    "cardiology",
			Location:     "New Orleans, Louisiana",
			StartDate:    date(2026, time.March, 21),
			EndDate:      date(2026, time.March, 23),
			URL:          "https://accscientificsession.acc.org",
			Keywords:     []string{"heart", "cardiovascular", "interventional"},
		},
		{
			Name:         "American Society of Hematology Annual Meeting",
			Abbreviation: "ASH",
			Specialty:    "hematology",
			Location:     "Orlando, Florida",
			StartDate:    date(2026, time.December, 5),
			EndDate:      date(2026, time.December, 8),
			URL:          "https://www.hematology.org/meetings/annual-meeting",
			Keywords:     []string{"blood", "leukemia", "lymphoma", "myeloma"},
		},
		{
			Name:         "American Academy of Neurology Annual Meeting",
			Abbreviation: "AAN",
			Specialty:    "neurology",
			Location:     "San Diego, California",
			StartDate:    date(2026, time.April, 18),
			EndDate:      date(2026, time.April, 23),
			URL:          "https://www.aan.com/events/annual-meeting",
			Keywords:     []string{"brain", "stroke", "epilepsy", "multiple sclerosis"},
		},
		{
			Name:         "American Heart Association Scientific Sessions",
			Abbreviation: "AHA",
			Specialty:    "cardiology",
			Location:     "Chicago, Illinois",
			StartDate:    date(2026, time.November, 14),
			EndDate:      date(2026, time.November, 16),
			URL:          "https://professional.heart.org/en/meetings/scientific-sessions",
			Keywords:     []string{"heart", "cardiovascular", "stroke"},
		},
		{
			Name:         "American Association for Cancer Research Annual Meeting",
			Abbreviation: "AACR",
			Specialty:    "cancer research",
			Location:     "Philadelphia, Pennsylvania",
			StartDate:    date(2026, time.April, 10),
			EndDate:      date(2026, time.April, 15),
			URL:          "https://www.aacr.org/meeting/aacr-annual-meeting-2026",
			Keywords:     []string{"cancer", "tumor biology", "translational"},
		},
		{
			Name:         "American Urological Association Annual Meeting",
			Abbreviation: "AUA",
			Specialty:    "urology",
			Location:     "Las Vegas, Nevada",
			StartDate:    date(2026, time.May, 1),
			EndDate:      date(2026, time.May, 4),
			URL:          "https://www.auanet.org/annual-meeting",
			Keywords:     []string{"prostate", "bladder", "kidney"},
		},
		{
			Name:         "European Association for the Study of the Liver Congress",
			Abbreviation: "EASL",
			Specialty:    "hepatology",
			Location:     "Vienna, Austria",
			StartDate:    date(2026, time.June, 24),
			EndDate:      date(2026, time.June, 27),
			URL:          "https://easlcongress.eu",
			Keywords:     []string{"liver", "hepatitis", "cirrhosis", "europe"},
		},
	}
}
