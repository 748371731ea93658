// ----------- pkg/web/handler/user_handler.go -----------
package handler

import (
	"context"
	"errors"
	"unicode"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"

	cerrors "my-blog-api/pkg/common/errors"
	"my-blog-api/pkg/core/auth"
	postdao "my-blog-api/pkg/core/post/repository/dao"
	usermodel "my-blog-api/pkg/core/user/model"
	userdao "my-blog-api/pkg/core/user/repository/dao"
	"my-blog-api/pkg/web/middleware"
	"my-blog-api/pkg/web/model"
)

type UserHandler struct {
	Users  userdao.UserRepository
	Posts  postdao.PostRepository
	Hasher *auth.PasswordHasher
	Tokens *auth.TokenIssuer
}

func NewUserHandler(users userdao.UserRepository, posts postdao.PostRepository,
	hasher *auth.PasswordHasher, tokens *auth.TokenIssuer) *UserHandler {
	return &UserHandler{
		Users:  users,
		Posts:  posts,
		Hasher: hasher,
		Tokens: tokens,
	}
}

// Signup 注册：邮箱/用户名唯一性预检 → 哈希密码 → 入库。
// 响应只含公开字段，永不返回密码哈希
func (h *UserHandler) Signup(ctx context.Context, c *app.RequestContext) {
	var req model.SignupReq
	if err := c.BindAndValidate(&req); err != nil {
		respondError(c, 400, "参数校验失败")
		return
	}
	if req.Username == "" || req.Email == "" {
		respondError(c, 400, "username and email are required")
		return
	}

	if err := validatePasswordStrength(req.Password); err != nil {
		respondError(c, 400, err.Error())
		return
	}

	// 检查用户名重复
	if exists, err := h.Users.IsUsernameExists(req.Username); err != nil {
		respondRepoError(c, err)
		return
	} else if exists {
		respondError(c, 409, "用户名已存在")
		return
	}

	// 检查邮箱重复
	if exists, err := h.Users.IsEmailExists(req.Email); err != nil {
		respondRepoError(c, err)
		return
	} else if exists {
		respondError(c, 409, "邮箱已被注册")
		return
	}

	// 密码加密
	hashedPwd, err := h.Hasher.Hash(req.Password)
	if err != nil {
		respondError(c, 500, "internal server error")
		return
	}

	user := usermodel.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hashedPwd,
		Bio:          req.Bio,
		ProfilePic:   req.ProfilePic,
		IsActive:     true,
	}

	// 创建用户记录，并发下撞库由唯一索引兜底
	if err := h.Users.CreateUser(&user); err != nil {
		respondRepoError(c, err)
		return
	}

	c.JSON(201, toUserRes(user))
}

// Login 登录：按邮箱查用户并校验密码。
// 用户不存在与密码错误返回同一种失败，不提供探测线索
func (h *UserHandler) Login(ctx context.Context, c *app.RequestContext) {
	var req model.LoginReq
	if err := c.BindAndValidate(&req); err != nil {
		respondError(c, 400, "参数错误")
		return
	}
	if req.Email == "" || req.Password == "" {
		respondError(c, 400, "email and password are required")
		return
	}

	user, err := h.Users.QueryByEmail(req.Email)
	if err != nil {
		if errors.Is(err, cerrors.ErrUserNotFound) {
			respondError(c, 401, "invalid credentials")
			return
		}
		respondRepoError(c, err)
		return
	}

	if !h.Hasher.Check(req.Password, user.PasswordHash) {
		respondError(c, 401, "invalid credentials")
		return
	}

	// 生成会话JWT，主体绑定用户id
	signedToken, err := h.Tokens.IssueSession(user.ID, user.Username)
	if err != nil {
		respondError(c, 500, "令牌生成失败")
		return
	}

	c.JSON(200, utils.H{
		"token":    signedToken,
		"user_id":  user.ID,
		"username": user.Username,
	})
}

// Logout 无服务端吊销机制，登出即客户端丢弃令牌，
// 服务端仅应答确认（已知的设计限制）
func (h *UserHandler) Logout(ctx context.Context, c *app.RequestContext) {
	c.JSON(200, utils.H{
		"success": true,
		"message": "token discarded (client should remove token from storage)",
	})
}

// Me 当前用户资料及统计
func (h *UserHandler) Me(ctx context.Context, c *app.RequestContext) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		respondError(c, 401, "unauthorized")
		return
	}

	user, err := h.Users.QueryByID(identity.UserID)
	if err != nil {
		respondRepoError(c, err)
		return
	}

	postCount, err := h.Posts.CountByAuthor(user.ID)
	if err != nil {
		respondRepoError(c, err)
		return
	}

	c.JSON(200, model.MeRes{
		UserRes: toUserRes(user),
		Stats:   model.UserStats{Posts: postCount},
	})
}

// UpdateProfile 编辑本人资料（username/bio/profile_pic）
func (h *UserHandler) UpdateProfile(ctx context.Context, c *app.RequestContext) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		respondError(c, 401, "unauthorized")
		return
	}

	var req model.UpdateProfileReq
	if err := c.BindAndValidate(&req); err != nil {
		respondError(c, 400, "参数错误")
		return
	}

	fields := map[string]interface{}{}
	if req.Username != "" {
		fields["username"] = req.Username
	}
	if req.Bio != "" {
		fields["bio"] = req.Bio
	}
	if req.ProfilePic != "" {
		fields["profile_pic"] = req.ProfilePic
	}

	if err := h.Users.UpdateProfile(identity.UserID, fields); err != nil {
		respondRepoError(c, err)
		return
	}

	user, err := h.Users.QueryByID(identity.UserID)
	if err != nil {
		respondRepoError(c, err)
		return
	}
	c.JSON(200, toUserRes(user))
}

// ChangePassword 修改密码，先校验旧密码
func (h *UserHandler) ChangePassword(ctx context.Context, c *app.RequestContext) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		respondError(c, 401, "unauthorized")
		return
	}

	var req model.ChangePwdReq
	if err := c.BindAndValidate(&req); err != nil {
		respondError(c, 400, "参数错误")
		return
	}

	// 检查新密码格式
	if err := validatePasswordStrength(req.NewPassword); err != nil {
		respondError(c, 400, err.Error())
		return
	}

	storedHash, err := h.Users.GetPasswordHashByID(identity.UserID)
	if err != nil {
		respondRepoError(c, err)
		return
	}
	if !h.Hasher.Check(req.OldPassword, storedHash) {
		respondError(c, 401, "invalid credentials")
		return
	}

	newHash, err := h.Hasher.Hash(req.NewPassword)
	if err != nil {
		respondError(c, 500, "internal server error")
		return
	}

	if err := h.Users.UpdatePassword(identity.UserID, newHash); err != nil {
		respondRepoError(c, err)
		return
	}

	c.JSON(200, utils.H{"message": "密码已更新"})
}

// RequestPasswordReset 签发1小时有效的密码重置令牌。
// 邮件投递不在本服务范围，令牌直接随响应返回
func (h *UserHandler) RequestPasswordReset(ctx context.Context, c *app.RequestContext) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		respondError(c, 401, "unauthorized")
		return
	}

	resetToken, err := h.Tokens.IssueReset(identity.UserID)
	if err != nil {
		respondError(c, 500, "令牌生成失败")
		return
	}

	c.JSON(200, utils.H{
		"reset_token": resetToken,
		"message":     "reset token issued, valid for 1 hour",
	})
}

// ResetPassword 用重置令牌设置新密码。会话令牌在此无效
func (h *UserHandler) ResetPassword(ctx context.Context, c *app.RequestContext) {
	var req model.ResetPwdReq
	if err := c.BindAndValidate(&req); err != nil {
		respondError(c, 400, "参数错误")
		return
	}

	claims, err := h.Tokens.VerifyReset(req.Token)
	if err != nil {
		respondError(c, 401, "unauthorized")
		return
	}

	if err := validatePasswordStrength(req.NewPassword); err != nil {
		respondError(c, 400, err.Error())
		return
	}

	newHash, err := h.Hasher.Hash(req.NewPassword)
	if err != nil {
		respondError(c, 500, "internal server error")
		return
	}

	if err := h.Users.UpdatePassword(claims.UserID, newHash); err != nil {
		respondRepoError(c, err)
		return
	}

	c.JSON(200, utils.H{"message": "密码已重置"})
}

// DeleteAccount 注销账号，同一事务内级联删除本人全部文章
func (h *UserHandler) DeleteAccount(ctx context.Context, c *app.RequestContext) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		respondError(c, 401, "unauthorized")
		return
	}

	if err := h.Users.DeleteAccount(identity.UserID); err != nil {
		respondRepoError(c, err)
		return
	}

	c.JSON(200, utils.H{"message": "account deleted"})
}

func toUserRes(user usermodel.User) model.UserRes {
	return model.UserRes{
		ID:         user.ID,
		Username:   user.Username,
		Email:      user.Email,
		Bio:        user.Bio,
		ProfilePic: user.ProfilePic,
		CreatedAt:  user.CreatedAt,
	}
}

// 密码规则：同时包含数字、字母和特殊字符，最少8位
func validatePasswordStrength(password string) error {
	if len(password) < 8 {
		return errors.New("密码至少8位")
	}

	hasNumber := false
	hasLetter := false
	hasSpecial := false

	for _, c := range password {
		switch {
		case unicode.IsNumber(c):
			hasNumber = true
		case unicode.IsLetter(c):
			hasLetter = true
		case unicode.IsSymbol(c) || unicode.IsPunct(c):
			hasSpecial = true
		}
	}

	if !(hasNumber && hasLetter && hasSpecial) {
		return errors.New("需包含数字、字母和特殊字符")
	}

	return nil
}
