package validation

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/avikern/stand-planner/internal/model"
	"github.com/avikern/stand-planner/internal/timeutil"
)

// Validate runs every check over the batch and returns the report.  The
// checks accumulate: a record failing the schema check is still run
// through the later checks so the caller sees everything wrong at once.
// The function is pure and re-entrant; validating the same input twice
// yields identical reports.
func Validate(records []FlightRecord, refs ReferenceData, rules BusinessRuleSettings) Report {
	v := &validator{refs: refs, rules: rules}

	// Default missing row numbers to the record's position so issues can
	// always be traced back to a row.
	records = slices.Clone(records)
	for i := range records {
		if records[i].Row == 0 {
			records[i].Row = i + 1
		}
	}

	// Parsed view of each record, built up by the per-record checks and
	// consumed by the batch checks.
	v.parsed = make([]parsedRecord, len(records))
	for i := range records {
		v.checkSchema(&records[i])
		v.checkTypes(&records[i], &v.parsed[i])
		v.checkReferences(&records[i])
	}
	v.checkLinkage(records)
	v.checkTurnaround(records)
	v.checkConnections(records)
	v.checkUtilization(records)

	return v.report(records)
}

type parsedRecord struct {
	scheduled   time.Time
	scheduledOK bool
	nature      model.FlightNature
	natureOK    bool
}

type validator struct {
	refs   ReferenceData
	rules  BusinessRuleSettings
	parsed []parsedRecord
	issues []Issue
}

func (v *validator) add(is Issue) { v.issues = append(v.issues, is) }

// checkSchema enforces presence of the required fields (E001).
func (v *validator) checkSchema(r *FlightRecord) {
	required := []struct{ field, value string }{
		{"id", r.ID},
		{"number", r.Number},
		{"airline_code", r.AirlineCode},
		{"aircraft_type_id", r.AircraftTypeID},
		{"nature", r.Nature},
		{"scheduled", r.Scheduled},
		{"origin_iata", r.OriginIATA},
		{"destination_iata", r.DestIATA},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			v.add(Issue{
				Severity: SeverityError, Code: CodeMissingField,
				Field: f.field, Column: f.field, RecordID: r.ID, Row: r.Row,
				Message: "required field " + f.field + " is missing or empty",
			})
		}
	}
}

// checkTypes parses datetimes and the flight nature (E002), noting the
// detected date format for diagnostics (I001) and large estimate
// deviations (I002).
func (v *validator) checkTypes(r *FlightRecord, p *parsedRecord) {
	if strings.TrimSpace(r.Nature) != "" {
		nature, err := model.ParseFlightNature(r.Nature)
		if err != nil {
			v.add(Issue{
				Severity: SeverityError, Code: CodeBadType,
				Field: "nature", Column: "nature", RecordID: r.ID, Row: r.Row,
				Message: "nature must be Arrival or Departure", Value: r.Nature,
			})
		} else {
			p.nature, p.natureOK = nature, true
		}
	}
	if strings.TrimSpace(r.Scheduled) != "" {
		t, format, err := timeutil.ParseDateIn(r.Scheduled, v.rules.DatePrefs)
		if err != nil {
			v.add(Issue{
				Severity: SeverityError, Code: CodeBadType,
				Field: "scheduled", Column: "scheduled", RecordID: r.ID, Row: r.Row,
				Message: "scheduled time is not in an accepted date format", Value: r.Scheduled,
			})
		} else {
			p.scheduled, p.scheduledOK = t, true
			if format != timeutil.FormatISO8601 {
				v.add(Issue{
					Severity: SeverityInfo, Code: CodeNonISODate,
					Field: "scheduled", Column: "scheduled", RecordID: r.ID, Row: r.Row,
					Message: "scheduled time accepted in non-ISO format " + format.String(), Value: r.Scheduled,
				})
			}
		}
	}
	if strings.TrimSpace(r.Estimated) != "" {
		est, _, err := timeutil.ParseDateIn(r.Estimated, v.rules.DatePrefs)
		switch {
		case err != nil:
			v.add(Issue{
				Severity: SeverityError, Code: CodeBadType,
				Field: "estimated", Column: "estimated", RecordID: r.ID, Row: r.Row,
				Message: "estimated time is not in an accepted date format", Value: r.Estimated,
			})
		case p.scheduledOK:
			if d := est.Sub(p.scheduled); d > time.Hour || d < -time.Hour {
				v.add(Issue{
					Severity: SeverityInfo, Code: CodeLargeDelay,
					Field: "estimated", Column: "estimated", RecordID: r.ID, Row: r.Row,
					Message: fmt.Sprintf("estimated time deviates from schedule by %s", d.Round(time.Minute)),
				})
			}
		}
	}
}

// checkReferences resolves airline, terminal and aircraft type against
// the reference data (E004; aircraft mismatches downgrade to W012 with
// nearest-code suggestions).
func (v *validator) checkReferences(r *FlightRecord) {
	if code := strings.TrimSpace(r.AirlineCode); code != "" && !v.refs.Airlines[code] {
		v.add(Issue{
			Severity: SeverityError, Code: CodeUnknownReference,
			Field: "airline_code", Column: "airline_code", RecordID: r.ID, Row: r.Row,
			Message: "unknown airline code", Value: code,
		})
	}
	if term := strings.TrimSpace(r.Terminal); term != "" && !v.refs.Terminals[term] {
		v.add(Issue{
			Severity: SeverityError, Code: CodeUnknownReference,
			Field: "terminal", Column: "terminal", RecordID: r.ID, Row: r.Row,
			Message: "unknown terminal", Value: term,
		})
	}
	if tid := strings.TrimSpace(r.AircraftTypeID); tid != "" && !v.knownType(tid) {
		sug := nearestTypeCodes(tid, v.refs.AircraftTypes, 3)
		is := Issue{
			Severity: SeverityWarning, Code: CodeUnknownAircraft,
			Field: "aircraft_type_id", Column: "aircraft_type_id", RecordID: r.ID, Row: r.Row,
			Message: "aircraft type not in reference data", Value: tid,
			Suggestions: sug,
		}
		if len(sug) > 0 {
			is.Suggestion = sug[0]
		}
		v.add(is)
	}
}

func (v *validator) knownType(id string) bool {
	for _, t := range v.refs.AircraftTypes {
		if t.ID == id {
			return true
		}
	}
	return false
}

// checkLinkage requires every link_id to reference a present partner
// flight (E004 on link_id).
func (v *validator) checkLinkage(records []FlightRecord) {
	sizes := make(map[string]int)
	for i := range records {
		if records[i].LinkID != "" {
			sizes[records[i].LinkID]++
		}
	}
	for i := range records {
		r := &records[i]
		if r.LinkID != "" && sizes[r.LinkID] < 2 {
			v.add(Issue{
				Severity: SeverityError, Code: CodeUnknownReference,
				Field: "link_id", Column: "link_id", RecordID: r.ID, Row: r.Row,
				Message: "link_id does not reference a present flight", Value: r.LinkID,
			})
		}
	}
}

// checkTurnaround enforces the minimum turnaround on linked pairs:
// negative is an error (E005), below the minimum a warning (W004).
func (v *validator) checkTurnaround(records []FlightRecord) {
	type member struct {
		rec *FlightRecord
		p   *parsedRecord
	}
	byLink := make(map[string][]member)
	var order []string
	for i := range records {
		r := &records[i]
		if r.LinkID == "" {
			continue
		}
		if _, seen := byLink[r.LinkID]; !seen {
			order = append(order, r.LinkID)
		}
		byLink[r.LinkID] = append(byLink[r.LinkID], member{r, &v.parsed[i]})
	}
	for _, link := range order {
		group := byLink[link]
		var arr, dep *member
		for i := range group {
			m := &group[i]
			if !m.p.natureOK || !m.p.scheduledOK {
				arr, dep = nil, nil
				break
			}
			switch m.p.nature {
			case model.Arrival:
				arr = m
			case model.Departure:
				dep = m
			}
		}
		if arr == nil || dep == nil {
			continue
		}
		turn := int(dep.p.scheduled.Sub(arr.p.scheduled) / time.Minute)
		switch {
		case turn < 0:
			v.add(Issue{
				Severity: SeverityError, Code: CodeNegativeTurn,
				Field: "scheduled", Column: "scheduled", RecordID: dep.rec.ID, Row: dep.rec.Row,
				Message: fmt.Sprintf("departure precedes arrival in link %s by %d minutes", link, -turn),
				Details: map[string]string{"link_id": link},
			})
		case turn < v.rules.minTurnaround():
			v.add(Issue{
				Severity: SeverityWarning, Code: CodeShortTurnaround,
				Field: "scheduled", Column: "scheduled", RecordID: dep.rec.ID, Row: dep.rec.Row,
				Message: fmt.Sprintf("turnaround of %d minutes in link %s is below the %d minute minimum", turn, link, v.rules.minTurnaround()),
				Details: map[string]string{"link_id": link},
			})
		}
	}
}

// checkConnections verifies each declared passenger connection stays
// inside its transfer bounds; critical connections escalate to errors.
func (v *validator) checkConnections(records []FlightRecord) {
	index := make(map[string]int, len(records))
	for i := range records {
		index[records[i].ID] = i
	}
	lookup := func(id string) (*FlightRecord, *parsedRecord, bool) {
		i, ok := index[id]
		if !ok {
			return nil, nil, false
		}
		return &records[i], &v.parsed[i], true
	}
	for _, conn := range v.refs.Connections {
		arrRec, arrP, arrOK := lookup(conn.ArrivalID)
		depRec, depP, depOK := lookup(conn.DepartureID)
		if !arrOK || !depOK {
			missing := conn.ArrivalID
			if arrOK {
				missing = conn.DepartureID
			}
			v.add(Issue{
				Severity: SeverityWarning, Code: CodeConnUnknownFlight,
				Field: "connection", RecordID: missing,
				Message: "connection references a flight not present in the batch", Value: missing,
			})
			continue
		}
		if !arrP.scheduledOK || !depP.scheduledOK {
			continue
		}
		transfer := int(depP.scheduled.Sub(arrP.scheduled) / time.Minute)
		switch {
		case transfer < conn.MinTransferMinutes:
			code, sev := CodeConnShort, SeverityWarning
			if conn.Critical {
				code, sev = CodeCriticalConnShort, SeverityError
			}
			v.add(Issue{
				Severity: sev, Code: code,
				Field: "connection", RecordID: depRec.ID, Row: depRec.Row,
				Message: fmt.Sprintf("transfer of %d minutes from %s is below the %d minute minimum", transfer, arrRec.ID, conn.MinTransferMinutes),
			})
		case transfer > conn.MaxTransferMinutes:
			code, sev := CodeConnLong, SeverityWarning
			if conn.Critical {
				code, sev = CodeCriticalConnLong, SeverityError
			}
			v.add(Issue{
				Severity: sev, Code: code,
				Field: "connection", RecordID: depRec.ID, Row: depRec.Row,
				Message: fmt.Sprintf("transfer of %d minutes from %s exceeds the %d minute maximum", transfer, arrRec.ID, conn.MaxTransferMinutes),
			})
		}
	}
}

// nominalWindow is the assumed ground occupancy of a flight for the
// utilisation check: two hours from its scheduled time.
const nominalWindow = 2 * time.Hour

// checkUtilization flags flights sharing a number on the same calendar
// day whose nominal occupancy windows overlap (W011): the same physical
// aircraft cannot fly both.
func (v *validator) checkUtilization(records []FlightRecord) {
	type key struct {
		number string
		day    string
	}
	groups := make(map[key][]int)
	var order []key
	for i := range records {
		if records[i].Number == "" || !v.parsed[i].scheduledOK {
			continue
		}
		k := key{records[i].Number, v.parsed[i].scheduled.Format("2006-01-02")}
		if _, seen := groups[k]; !seen {
			order = append(order, k)
		}
		groups[k] = append(groups[k], i)
	}
	for _, k := range order {
		idx := groups[k]
		for a := 0; a < len(idx); a++ {
			for b := a + 1; b < len(idx); b++ {
				ta := v.parsed[idx[a]].scheduled
				tb := v.parsed[idx[b]].scheduled
				if ta.Before(tb.Add(nominalWindow)) && tb.Before(ta.Add(nominalWindow)) {
					later := &records[idx[b]]
					if tb.Before(ta) {
						later = &records[idx[a]]
					}
					v.add(Issue{
						Severity: SeverityWarning, Code: CodeUtilizationClash,
						Field: "number", Column: "number", RecordID: later.ID, Row: later.Row,
						Message: fmt.Sprintf("flight number %s is scheduled twice within its occupancy window on %s", k.number, k.day),
					})
				}
			}
		}
	}
}

// report classifies the records and packages the sorted issues.
func (v *validator) report(records []FlightRecord) Report {
	slices.SortStableFunc(v.issues, func(a, b Issue) int {
		if a.Row != b.Row {
			return a.Row - b.Row
		}
		if a.Severity != b.Severity {
			return b.Severity.rank() - a.Severity.rank()
		}
		return strings.Compare(a.Code, b.Code)
	})

	worst := make(map[int]Severity) // row -> worst severity
	perCode := make(map[string]int)
	for _, is := range v.issues {
		perCode[is.Code]++
		if is.Row == 0 {
			continue
		}
		if is.Severity.rank() > worst[is.Row].rank() {
			worst[is.Row] = is.Severity
		}
	}
	rep := Report{
		RecordsTotal:      len(records),
		PerCategoryCounts: perCode,
		Issues:            v.issues,
	}
	if rep.Issues == nil {
		rep.Issues = []Issue{}
	}
	for i := range records {
		switch worst[records[i].Row] {
		case SeverityError:
			rep.InvalidCount++
		case SeverityWarning:
			rep.WarningCount++
		default:
			rep.ValidCount++
		}
	}
	return rep
}

// nearestTypeCodes suggests up to limit reference codes sharing
// alphanumeric substance with the unknown one.
func nearestTypeCodes(input string, types []model.AircraftType, limit int) []string {
	norm := normalizeCode(input)
	if norm == "" {
		return nil
	}
	type cand struct {
		id   string
		dist int
	}
	var cands []cand
	for _, t := range types {
		tn := normalizeCode(t.ID)
		if strings.Contains(tn, norm) || strings.Contains(norm, tn) {
			d := len(tn) - len(norm)
			if d < 0 {
				d = -d
			}
			cands = append(cands, cand{t.ID, d})
		}
	}
	slices.SortStableFunc(cands, func(a, b cand) int {
		if a.dist != b.dist {
			return a.dist - b.dist
		}
		return strings.Compare(a.id, b.id)
	})
	var out []string
	for _, c := range cands {
		if len(out) == limit {
			break
		}
		out = append(out, c.id)
	}
	return out
}

// normalizeCode strips non-alphanumerics and upper-cases.
func normalizeCode(s string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(s) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
