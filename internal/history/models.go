// Package history persists a one-row-per-run summary of completed CLI
// invocations (spec.md §9 supplemented feature): instance name, material
// cost, completeness, run time, and the config that produced them. It
// never touches the in-progress search state a Problem or Solution holds,
// only the terminal SendableSolution — in keeping with spec.md §1's
// "persistence of intermediate state" Non-goal.
package history

import "time"

// RunRecord represents the solver_runs table.
type RunRecord struct {
	ID               int64     `gorm:"column:id;primaryKey;autoIncrement"`
	InstanceName     string    `gorm:"column:instance_name;type:varchar(256);index"`
	Complete         bool      `gorm:"column:complete"`
	MaterialCost     int64     `gorm:"column:material_cost"`
	PartAreaExcluded int64     `gorm:"column:part_area_excluded"`
	RunTimeMS        int64     `gorm:"column:run_time_ms"`
	NThreads         int       `gorm:"column:n_threads"`
	CostComparator   string    `gorm:"column:cost_comparator;type:varchar(32)"`
	ConfigSnapshot   string    `gorm:"column:config_snapshot;type:text"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName returns the table name for RunRecord.
func (RunRecord) TableName() string {
	return "solver_runs"
}
