package database

import (
	"git.solsynth.dev/hypernet/teamtemp/pkg/internal/models"
	"gorm.io/gorm"
)

var AutoMaintainRange = []any{
	&models.Team{},
	&models.TeamSettings{},
	&models.Question{},
	&models.QuestionSet{},
	&models.QuestionSetItem{},
	&models.Round{},
	&models.RoundQuestion{},
	&models.Submission{},
	&models.Answer{},
	&models.FreeText{},
}

func RunMigration(source *gorm.DB) error {
	if err := source.AutoMigrate(AutoMaintainRange...); err != nil {
		return err
	}

	return nil
}
