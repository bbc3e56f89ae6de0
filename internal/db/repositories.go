package db

import "gorm.io/gorm"

type Repositories struct {
	Users     *UserRepository
	Profiles  *ProfileRepository
	SleepLogs *SleepLogRepository
	Goals     *GoalRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Users:     NewUserRepository(database),
		Profiles:  NewProfileRepository(database),
		SleepLogs: NewSleepLogRepository(database),
		Goals:     NewGoalRepository(database),
	}
}
