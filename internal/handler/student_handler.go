package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/Hezha00/english-arcade-sub001/internal/middleware"
	"github.com/Hezha00/english-arcade-sub001/internal/model"
)

// StudentListerInterface は生徒一覧ハンドラーが必要とするインターフェース。
// repository.StudentRepositoryの部分集合として定義する。
type StudentListerInterface interface {
	ListByTeacher(ctx context.Context, teacherID, classroomID string) ([]*model.Student, error)
}

// StudentHandler は生徒参照のHTTPハンドラー。
type StudentHandler struct {
	students StudentListerInterface
}

// NewStudentHandler はStudentHandlerを生成する。
func NewStudentHandler(students StudentListerInterface) *StudentHandler {
	return &StudentHandler{students: students}
}

// studentResponse は生徒情報のAPIレスポンス。
// 教師が資格情報を生徒に配布できるよう、パスワードを平文で含む。
type studentResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Username      string `json:"username"`
	Password      string `json:"password"`
	ClassroomID   string `json:"classroom_id"`
	ClassroomName string `json:"classroom"`
	School        string `json:"school"`
	YearLevel     string `json:"year_level"`
}

// ListStudents は教師の生徒一覧を返す。classroom_idで絞り込み可能。
// GET /api/students?teacher_id=[&classroom_id=]
func (h *StudentHandler) ListStudents(w http.ResponseWriter, r *http.Request) {
	teacherID := r.URL.Query().Get("teacher_id")
	if teacherID == "" {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:    model.ErrCodeInvalidRequest,
			Message: "teacher_idクエリパラメータは必須です。",
		})
		return
	}
	classroomID := r.URL.Query().Get("classroom_id")

	students, err := h.students.ListByTeacher(r.Context(), teacherID, classroomID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	results := make([]studentResponse, len(students))
	for i, s := range students {
		results[i] = studentResponse{
			ID:            s.ID,
			Name:          s.Name,
			Username:      s.Username,
			Password:      s.Password,
			ClassroomID:   s.ClassroomID,
			ClassroomName: s.ClassroomName,
			School:        s.School,
			YearLevel:     s.YearLevel,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(results)
}
