package migration_1

import (
	"fmt"

	"gorm.io/gorm"
)

type TrainingRun struct {
	DatasetRows int `gorm:"default:0"`
}

func Migration(db *gorm.DB) error {
	if db.Migrator().HasColumn(&TrainingRun{}, "dataset_rows") {
		return nil
	}

	if err := db.Migrator().AddColumn(&TrainingRun{}, "DatasetRows"); err != nil {
		return fmt.Errorf("error adding DatasetRows column: %w", err)
	}

	if err := db.Model(&TrainingRun{}).
		Where("dataset_rows IS NULL").
		Update("dataset_rows", 0).Error; err != nil {
		return fmt.Errorf("error setting default value for DatasetRows: %w", err)
	}

	return nil
}

func Rollback(db *gorm.DB) error {
	if err := db.Migrator().DropColumn(&TrainingRun{}, "DatasetRows"); err != nil {
		return fmt.Errorf("error dropping DatasetRows column: %w", err)
	}

	return nil
}
