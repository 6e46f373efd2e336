// Package model はドメインモデルを定義する。
package model

import "time"

// Student は生徒アカウントを表す。
// IDにはアイデンティティプロバイダが発行したIDをそのまま主キーとして使用する。
// レコードと認証アイデンティティは1つのIDを共有する単一の概念的ユニットであり、
// 常に両方が存在するか、どちらも存在しないかのいずれかである。
type Student struct {
	ID            string // アイデンティティプロバイダ発行のID
	Name          string // first_name + " " + last_name
	Username      string
	Password      string // 平文保存（教師が資格情報を閲覧するための既知の仕様）
	TeacherID     string
	ClassroomName string // 後方互換のための非正規化コピー
	ClassroomID   string
	School        string
	YearLevel     string
	CreatedAt     time.Time
}
