package model

// TotalHours sums the hours of every machine activity across all client
// sections. Material activities never contribute. Rows migrated from older
// schema versions can carry a missing or non-positive hours value; those
// contribute zero instead of failing the whole computation.
func TotalHours(report *DailyReport) float64 {
	if report == nil {
		return 0
	}
	total := 0.0
	for _, client := range report.Clients {
		for _, activity := range client.Activities {
			if activity.Type != ActivityTypeMachine {
				continue
			}
			if activity.Hours <= 0 {
				continue
			}
			total += activity.Hours
		}
	}
	return total
}
