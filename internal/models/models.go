package models

// All lists every persisted model in dependency order
func All() []interface{} {
	return []interface{}{
		&User{},
		&Team{},
		&TeamMember{},
		&Project{},
		&ProjectTeam{},
		&Material{},
		&WorkItem{},
		&Task{},
		&TaskMaterial{},
		&TaskWorkItem{},
		&TaskWorker{},
	}
}
