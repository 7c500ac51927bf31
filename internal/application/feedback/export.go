package feedback

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/baechuer/course-feedback/internal/domain"
)

var exportHeader = []string{"course", "rating", "comments", "studentName", "studentEmail", "createdAt"}

// ExportRow is one line of the feedback CSV export.
type ExportRow struct {
	Course       string
	Rating       int
	Comments     string
	StudentName  string
	StudentEmail string
	CreatedAt    time.Time
}

func (s *Service) ExportRows(ctx context.Context) ([]ExportRow, error) {
	views, err := s.ListAll(ctx, domain.FeedbackFilter{})
	if err != nil {
		return nil, err
	}
	rows := make([]ExportRow, 0, len(views))
	for _, v := range views {
		r := ExportRow{
			Rating:    v.Rating,
			Comments:  v.Comments,
			CreatedAt: v.CreatedAt,
		}
		if v.Course != nil {
			r.Course = v.Course.Name
		}
		if v.Student != nil {
			r.StudentName = v.Student.Name
			r.StudentEmail = v.Student.Email
		}
		rows = append(rows, r)
	}
	return rows, nil
}

// WriteCSV renders rows with a header line. Missing references become empty cells.
func WriteCSV(w io.Writer, rows []ExportRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write([]string{
			r.Course,
			strconv.Itoa(r.Rating),
			r.Comments,
			r.StudentName,
			r.StudentEmail,
			r.CreatedAt.UTC().Format(time.RFC3339),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
