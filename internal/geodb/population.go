package geodb

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"regexp"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// AgeGroups lists the census age bands of the suburb-level demographic table,
// in publication order. "total" keys the all-ages row of a Breakdown.
var AgeGroups = []string{
	"0_4", "5_14", "15_19", "20_24", "25_34",
	"35_44", "45_54", "55_64", "65_74", "75_84", "85ov",
}

// Gender labels accepted by breakdown queries. Census columns are suffixed
// _M, _F and _P (persons).
const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderTotal  = "total"
)

// GenderCounts holds one age band's population split by gender.
type GenderCounts struct {
	Male   int `json:"male"`
	Female int `json:"female"`
	Total  int `json:"total"`
}

// ByGender selects one gender's count.
func (g GenderCounts) ByGender(gender string) (int, error) {
	switch gender {
	case GenderMale:
		return g.Male, nil
	case GenderFemale:
		return g.Female, nil
	case GenderTotal:
		return g.Total, nil
	}
	return 0, eris.Errorf("geodb: unknown gender %q", gender)
}

// Breakdown maps an age group ("total" or an AgeGroups entry) to its counts.
type Breakdown map[string]GenderCounts

// salRow is one suburb's demographic record. Codes are stored without the
// "SAL" prefix; State is empty when the source format carries no state column.
type salRow struct {
	Code  string
	State string
	Demo  Breakdown
}

// salColumns returns the demographic column names in publication order.
func salColumns() []string {
	cols := []string{"Tot_P_M", "Tot_P_F", "Tot_P_P"}
	for _, age := range AgeGroups {
		cols = append(cols, "Age_"+age+"_yr_M", "Age_"+age+"_yr_F", "Age_"+age+"_yr_P")
	}
	return cols
}

// parseSALPopulation reads the suburb-level population table. ABS exports of
// this table arrive in one of two shapes: an ordinary delimited CSV, or a
// "merged" form where column names and values are run together with no
// delimiters at all. The strategy is chosen once by inspecting the first
// line, then each line is handed to the matching parser.
func parseSALPopulation(path string) ([]salRow, error) {
	data, err := readTabular(path)
	if err != nil {
		return nil, err
	}

	firstLine := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		firstLine = data[:i]
	}
	if bytes.ContainsRune(firstLine, ',') {
		return parseDelimitedSAL(data, path)
	}
	return parseMergedSAL(data, path)
}

// parseDelimitedSAL parses the standard CSV form. The header drives column
// lookup so extra or reordered columns are tolerated; absent demographic
// columns simply yield zero counts.
func parseDelimitedSAL(data []byte, path string) ([]salRow, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, eris.Wrapf(err, "geodb: parse %s", path)
	}
	if len(records) == 0 {
		return nil, eris.Errorf("geodb: %s is empty", path)
	}

	idx := make(map[string]int, len(records[0]))
	for i, col := range records[0] {
		idx[strings.TrimSpace(col)] = i
	}
	codeIdx, ok := idx["SAL_CODE_2021"]
	if !ok {
		return nil, eris.Errorf("geodb: %s has no SAL_CODE_2021 column", path)
	}

	rows := make([]salRow, 0, len(records)-1)
	for _, rec := range records[1:] {
		if codeIdx >= len(rec) {
			continue
		}
		row := salRow{Code: normalizeSALCode(rec[codeIdx])}
		if row.Code == "" {
			continue
		}
		if si, ok := idx["state"]; ok && si < len(rec) {
			row.State = strings.TrimSpace(rec[si])
		}
		row.Demo = buildBreakdown(func(col string) int {
			ci, ok := idx[col]
			if !ok || ci >= len(rec) {
				return 0
			}
			v, err := strconv.Atoi(strings.TrimSpace(rec[ci]))
			if err != nil {
				return 0
			}
			return v
		})
		rows = append(rows, row)
	}
	return rows, nil
}

var mergedCodeRe = regexp.MustCompile(`^SAL(\d+)`)

// mergedColumnRes matches a column token immediately followed by its value,
// e.g. "Tot_P_P18201".
var mergedColumnRes = func() map[string]*regexp.Regexp {
	res := make(map[string]*regexp.Regexp)
	for _, col := range salColumns() {
		res[col] = regexp.MustCompile(regexp.QuoteMeta(col) + `(\d+)`)
	}
	return res
}()

// parseMergedSAL parses the merged-column form: each line starts with
// "SAL<code>" and continues with column-name/value tokens run together.
// Lines that don't start with a code token are skipped with a warning.
func parseMergedSAL(data []byte, path string) ([]salRow, error) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var rows []salRow
	var skipped int
	first := true
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if first {
			first = false // header line
			continue
		}
		if line == "" {
			continue
		}

		m := mergedCodeRe.FindStringSubmatch(line)
		if m == nil {
			skipped++
			continue
		}
		rest := line[len(m[0]):]

		values := make(map[string]int)
		for _, col := range salColumns() {
			if vm := mergedColumnRes[col].FindStringSubmatch(rest); vm != nil {
				v, err := strconv.Atoi(vm[1])
				if err == nil {
					values[col] = v
				}
				rest = strings.Replace(rest, vm[0], "", 1)
			}
		}

		rows = append(rows, salRow{
			Code: m[1],
			Demo: buildBreakdown(func(col string) int { return values[col] }),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, eris.Wrapf(err, "geodb: scan %s", path)
	}

	if skipped > 0 {
		zap.L().Warn("geodb: skipped malformed merged population lines",
			zap.String("path", path),
			zap.Int("skipped", skipped),
		)
	}
	return rows, nil
}

// buildBreakdown assembles the full age x gender mapping from a column getter.
func buildBreakdown(get func(col string) int) Breakdown {
	b := Breakdown{
		"total": {
			Male:   get("Tot_P_M"),
			Female: get("Tot_P_F"),
			Total:  get("Tot_P_P"),
		},
	}
	for _, age := range AgeGroups {
		b[age] = GenderCounts{
			Male:   get("Age_" + age + "_yr_M"),
			Female: get("Age_" + age + "_yr_F"),
			Total:  get("Age_" + age + "_yr_P"),
		}
	}
	return b
}

// normalizeSALCode strips the optional "SAL" prefix so both published code
// representations compare equal.
func normalizeSALCode(code string) string {
	code = strings.TrimSpace(code)
	return strings.TrimPrefix(strings.ToUpper(code), "SAL")
}
