package campaign

import "github.com/vibast-solutions/ms-go-campaigns/app/entity"

// partitionWindow splits one window of pending rows into the round to
// dispatch and the rows deferred to the next pass. The round keeps, per
// normalized sender identity, only the first row encountered; later rows
// for the same sender are deferred so a single credential is never exposed
// to more than one concurrent send per round. Input order is preserved on
// both sides.
//
// Rows with an empty sender identity are kept in the round: deferring them
// would defer them forever, and validation rejects them before scheduling
// anyway.
func partitionWindow(window []entity.Row) (round, deferred []entity.Row) {
	seen := make(map[string]struct{}, len(window))
	for _, row := range window {
		key := row.SenderKey()
		if key == "" {
			round = append(round, row)
			continue
		}
		if _, dup := seen[key]; dup {
			deferred = append(deferred, row)
			continue
		}
		seen[key] = struct{}{}
		round = append(round, row)
	}
	return round, deferred
}
