package api

import (
	"net/http"
	"testing"
)

func TestDashboard(t *testing.T) {
	t.Parallel()

	signed := newSignedInApp(t, testAppOptions{now: fixedTestNow})

	response := signed.get(t, "/api/dashboard")
	if response.status != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", response.status, string(response.body))
	}
	var empty struct {
		Weekly       []bucketPayload      `json:"weekly"`
		DaysLogged   int                  `json:"daysLogged"`
		GoalProgress *goalProgressPayload `json:"goalProgress"`
		RecentLogs   []sleepLogPayload    `json:"recentLogs"`
	}
	response.decode(t, &empty)
	if len(empty.Weekly) != 7 || empty.DaysLogged != 0 || empty.GoalProgress != nil || len(empty.RecentLogs) != 0 {
		t.Fatalf("unexpected empty dashboard %s", string(response.body))
	}

	postSleepLog(t, signed, "2024-05-14T23:00:00Z", "2024-05-15T07:00:00Z")
	postSleepLog(t, signed, "2024-05-13T23:00:00Z", "2024-05-14T05:00:00Z")
	signed.send(t, http.MethodPost, "/api/goals", map[string]any{"targetHours": 8})

	response = signed.get(t, "/api/dashboard")
	var dashboard struct {
		Today struct {
			TotalHours float64 `json:"totalHours"`
		} `json:"today"`
		Weekly        []bucketPayload      `json:"weekly"`
		WeeklyAverage float64              `json:"weeklyAverage"`
		DaysLogged    int                  `json:"daysLogged"`
		GoalProgress  *goalProgressPayload `json:"goalProgress"`
		RecentLogs    []sleepLogPayload    `json:"recentLogs"`
	}
	response.decode(t, &dashboard)

	if dashboard.DaysLogged != 2 {
		t.Fatalf("expected 2 logged days, got %d", dashboard.DaysLogged)
	}
	if dashboard.WeeklyAverage != 2 {
		t.Fatalf("expected weekly average 2, got %v", dashboard.WeeklyAverage)
	}
	if dashboard.GoalProgress == nil || dashboard.GoalProgress.Progress != 25 {
		t.Fatalf("expected goal progress 25, got %+v", dashboard.GoalProgress)
	}
	if len(dashboard.RecentLogs) != 2 {
		t.Fatalf("expected 2 recent logs, got %d", len(dashboard.RecentLogs))
	}
	if dashboard.Today.TotalHours != 0 {
		t.Fatalf("expected no sleep started today, got %v", dashboard.Today.TotalHours)
	}
}
