package model

import "time"

// 请求/响应数据结构
type (
	SignupReq struct {
		Username   string `json:"username" binding:"required,min=4,max=20"`
		Email      string `json:"email" binding:"required,email"`
		Password   string `json:"password" binding:"required"`
		Bio        string `json:"bio"`
		ProfilePic string `json:"profile_pic"`
	}

	LoginReq struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	UpdateProfileReq struct {
		Username   string `json:"username"`
		Bio        string `json:"bio"`
		ProfilePic string `json:"profile_pic"`
	}

	ChangePwdReq struct {
		OldPassword string `json:"old_password" binding:"required"`
		NewPassword string `json:"new_password" binding:"required"`
	}

	ResetPwdReq struct {
		Token       string `json:"token" binding:"required"`
		NewPassword string `json:"new_password" binding:"required"`
	}

	// UserRes 公开资料，永不包含密码哈希
	UserRes struct {
		ID         int64     `json:"id"`
		Username   string    `json:"username"`
		Email      string    `json:"email"`
		Bio        string    `json:"bio"`
		ProfilePic string    `json:"profile_pic"`
		CreatedAt  time.Time `json:"created_at"`
	}

	UserStats struct {
		Posts int64 `json:"posts"`
	}

	MeRes struct {
		UserRes
		Stats UserStats `json:"stats"`
	}
)
