// Package model はドメインモデルを定義する。
package model

// ProvisionRequest は生徒アカウント作成リクエストを表す。
// 全フィールドが必須であり、いずれかが空の場合は副作用なしで拒否される。
type ProvisionRequest struct {
	TeacherID     string `json:"teacher_id"`
	ClassroomName string `json:"classroom"`
	School        string `json:"school"`
	YearLevel     string `json:"year_level"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
}

// MissingFields は空のフィールド名をリクエストのJSONキー名で返す。
// 全フィールドが揃っている場合は空スライスを返す。
func (r *ProvisionRequest) MissingFields() []string {
	var missing []string
	if r.TeacherID == "" {
		missing = append(missing, "teacher_id")
	}
	if r.ClassroomName == "" {
		missing = append(missing, "classroom")
	}
	if r.School == "" {
		missing = append(missing, "school")
	}
	if r.YearLevel == "" {
		missing = append(missing, "year_level")
	}
	if r.FirstName == "" {
		missing = append(missing, "first_name")
	}
	if r.LastName == "" {
		missing = append(missing, "last_name")
	}
	return missing
}

// FullName は表示用の氏名を返す。
func (r *ProvisionRequest) FullName() string {
	return r.FirstName + " " + r.LastName
}

// StudentCredentials はプロビジョニング成功時に呼び出し元へ返す資格情報。
// パスワードがこの経路で呼び出し元に渡るのはこのレスポンスの1回のみ。
type StudentCredentials struct {
	Name     string
	Username string
	Password string
}
