// Package model はドメインモデルを定義する。
package model

import "time"

// Classroom は教師が管理するクラスを表す。
// (TeacherID, Name) の組で一意。プロビジョニング時に存在しなければ遅延作成され、
// 以後この操作からは変更されない。
type Classroom struct {
	ID        string
	Name      string
	School    string
	TeacherID string
	YearLevel string
	CreatedAt time.Time
}
