package model

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/fyerfyer/civic-doc-system/internal/models"
)

var validDocTypes = map[string]bool{
	string(models.TypeBill):            true,
	string(models.TypeHansard):         true,
	string(models.TypeOrderPaper):      true,
	string(models.TypeCommitteeReport): true,
	string(models.TypeGazette):         true,
	string(models.TypeGeneral):         true,
}

var validStatuses = map[string]bool{
	string(models.DocStatusUploaded):   true,
	string(models.DocStatusProcessing): true,
	string(models.DocStatusCompleted):  true,
	string(models.DocStatusFailed):     true,
}

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("doctype", func(fl validator.FieldLevel) bool {
			return validDocTypes[fl.Field().String()]
		})
		_ = v.RegisterValidation("docstatus", func(fl validator.FieldLevel) bool {
			return validStatuses[fl.Field().String()]
		})
	}
}
