package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/Hezha00/english-arcade-sub001/internal/middleware"
	"github.com/Hezha00/english-arcade-sub001/internal/model"
)

// ClassroomListerInterface はクラス一覧ハンドラーが必要とするインターフェース。
// repository.ClassroomRepositoryの部分集合として定義する。
type ClassroomListerInterface interface {
	ListByTeacher(ctx context.Context, teacherID string) ([]*model.Classroom, error)
}

// ClassroomHandler はクラス参照のHTTPハンドラー。
type ClassroomHandler struct {
	classrooms ClassroomListerInterface
}

// NewClassroomHandler はClassroomHandlerを生成する。
func NewClassroomHandler(classrooms ClassroomListerInterface) *ClassroomHandler {
	return &ClassroomHandler{classrooms: classrooms}
}

// classroomResponse はクラス情報のAPIレスポンス。
type classroomResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	School    string `json:"school"`
	TeacherID string `json:"teacher_id"`
	YearLevel string `json:"year_level"`
}

// ListClassrooms は教師のクラス一覧を返す。
// GET /api/classrooms?teacher_id=
func (h *ClassroomHandler) ListClassrooms(w http.ResponseWriter, r *http.Request) {
	teacherID := r.URL.Query().Get("teacher_id")
	if teacherID == "" {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:    model.ErrCodeInvalidRequest,
			Message: "teacher_idクエリパラメータは必須です。",
		})
		return
	}

	classrooms, err := h.classrooms.ListByTeacher(r.Context(), teacherID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	results := make([]classroomResponse, len(classrooms))
	for i, c := range classrooms {
		results[i] = classroomResponse{
			ID:        c.ID,
			Name:      c.Name,
			School:    c.School,
			TeacherID: c.TeacherID,
			YearLevel: c.YearLevel,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(results)
}
