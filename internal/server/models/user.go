package models

import "time"

// User is an account created on first Kakao login. DiarySeq is the per-user
// diary counter; it only grows, so sequence numbers are never reused after
// deletion.
type User struct {
	ID           int64
	KakaoID      string
	Nickname     string
	Email        string
	ProfileImage string
	DiarySeq     int64
	CreatedAt    time.Time
}
