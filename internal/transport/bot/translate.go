package bot

import (
	"errors"

	"github.com/NastyaGoryachaya/shabbat-guard-bot/internal/ports/errcode"
	"github.com/NastyaGoryachaya/shabbat-guard-bot/internal/service/schedule"
)

// FromServiceError maps the schedule error taxonomy onto transport codes.
func FromServiceError(err error) errcode.Code {
	switch {
	case errors.Is(err, schedule.ErrInvalidLocation):
		return errcode.InvalidLocation
	case errors.Is(err, schedule.ErrResolution):
		return errcode.ResolveFailed
	case errors.Is(err, schedule.ErrTenantNotFound):
		return errcode.TenantNotFound
	default:
		return errcode.Internal
	}
}

func translateBotError(code errcode.Code) string {
	switch code {
	case errcode.InvalidLocation:
		return "מזהה המיקום חייב להיות מספרי. חפש מזהה עם /findcity"
	case errcode.ResolveFailed:
		return "לא הצלחתי למשוך זמני שבת, נסה שוב מאוחר יותר"
	case errcode.TenantNotFound:
		return "הקבוצה עדיין לא מוגדרת. התחל עם /setlocation"
	case errcode.BadRequest:
		return "ערך לא תקין, בדוק את הפקודה ונסה שוב"
	default:
		return "שגיאה פנימית, נסה שוב מאוחר יותר"
	}
}
