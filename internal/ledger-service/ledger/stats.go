package ledger

// Stats agrega a posição da casa. Nunca é fonte de verdade independente:
// cada campo deriva dos deltas documentados por operação e pode ser
// reconstruído pelo replay do journal.
type Stats struct {
	TotalVolumeCents  int64
	GrossProfitCents  int64
	TotalPayoutsCents int64
	NetRevenueCents   int64
	ActiveUsers       int
}

func (s *Stats) apply(e JournalEntry) {
	s.TotalVolumeCents += e.VolumeDelta
	s.GrossProfitCents += e.GrossProfitDelta
	s.TotalPayoutsCents += e.PayoutsDelta
	s.NetRevenueCents += e.NetRevenueDelta
	s.ActiveUsers += e.ActiveDelta
}

// ReplayStats refaz as estatísticas a partir do log de operações.
// Deve bater com o agregado vivo do Engine a qualquer momento.
func ReplayStats(entries []JournalEntry) Stats {
	var s Stats
	for _, e := range entries {
		s.apply(e)
	}
	return s
}
