package db

import "gorm.io/gorm"

type Repositories struct {
	Users   *UserRepository
	Entries *EntryRepository
	Timers  *TimerRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Users:   NewUserRepository(database),
		Entries: NewEntryRepository(database),
		Timers:  NewTimerRepository(database),
	}
}
