package services

import (
	"time"

	"github.com/terraincognita07/sleeptrack/internal/models"
)

const dashboardRecentLogLimit = 5

type Dashboard struct {
	Today         TodaySummary      `json:"today"`
	Weekly        []DailyBucket     `json:"weekly"`
	WeeklyAverage float64           `json:"weeklyAverage"`
	DaysLogged    int               `json:"daysLogged"`
	GoalProgress  *GoalProgress     `json:"goalProgress"`
	RecentLogs    []models.SleepLog `json:"recentLogs"`
}

type DashboardService struct {
	sleep *SleepService
	goals *GoalService
}

func NewDashboardService(sleep *SleepService, goals *GoalService) *DashboardService {
	return &DashboardService{
		sleep: sleep,
		goals: goals,
	}
}

func (service *DashboardService) Build(userID string, reference time.Time, location *time.Location, labeler WeekdayLabeler) (Dashboard, error) {
	today, err := service.sleep.TodaySummary(userID, reference, location)
	if err != nil {
		return Dashboard{}, err
	}

	weekly, err := service.sleep.WeeklyBuckets(userID, reference, location, labeler)
	if err != nil {
		return Dashboard{}, err
	}

	recent, err := service.sleep.ListRecent(userID, dashboardRecentLogLimit)
	if err != nil {
		return Dashboard{}, err
	}

	progress, hasGoal, err := service.goals.Progress(userID, weekly)
	if err != nil {
		return Dashboard{}, err
	}

	average, daysLogged := SummarizeWeek(weekly)
	dashboard := Dashboard{
		Today:         today,
		Weekly:        weekly,
		WeeklyAverage: average,
		DaysLogged:    daysLogged,
		RecentLogs:    recent,
	}
	if hasGoal {
		dashboard.GoalProgress = &progress
	}
	return dashboard, nil
}
