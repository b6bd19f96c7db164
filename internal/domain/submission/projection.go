package submission

import "sort"

// ActivityRow is one line of the submissions table: the newest live record per kind.
type ActivityRow struct {
	ActivityTitle string              `json:"activity_title"`
	Latest        map[Kind]Submission `json:"latest"`
}

// Project groups subs by activity title and keeps, per kind, the record with
// the latest SubmittedAt. Soft-deleted approvals are never shown. Ties on
// SubmittedAt go to the greater ID so the output does not depend on input order.
func Project(subs []Submission) []ActivityRow {
	groups := make(map[string]map[Kind]Submission)
	for _, s := range subs {
		if s.Status == StatusDeletedPreviouslyApproved {
			continue
		}
		g, ok := groups[s.ActivityTitle]
		if !ok {
			g = make(map[Kind]Submission)
			groups[s.ActivityTitle] = g
		}
		cur, ok := g[s.Kind]
		if !ok || newer(s, cur) {
			g[s.Kind] = s
		}
	}

	out := make([]ActivityRow, 0, len(groups))
	for title, latest := range groups {
		out = append(out, ActivityRow{ActivityTitle: title, Latest: latest})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ActivityTitle < out[j].ActivityTitle })
	return out
}

func newer(a, b Submission) bool {
	if !a.SubmittedAt.Equal(b.SubmittedAt) {
		return a.SubmittedAt.After(b.SubmittedAt)
	}
	return a.ID > b.ID
}
