// ----------- pkg/web/handler/post_handler.go -----------
package handler

import (
	"context"
	"strconv"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"

	"my-blog-api/pkg/core/auth"
	postmodel "my-blog-api/pkg/core/post/model"
	postdao "my-blog-api/pkg/core/post/repository/dao"
	"my-blog-api/pkg/web/middleware"
	"my-blog-api/pkg/web/model"
)

type PostHandler struct {
	Posts postdao.PostRepository
}

func NewPostHandler(posts postdao.PostRepository) *PostHandler {
	return &PostHandler{Posts: posts}
}

// Create 发布文章，作者取自本次请求解析出的身份
func (h *PostHandler) Create(ctx context.Context, c *app.RequestContext) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		respondError(c, 401, "unauthorized")
		return
	}

	var req model.CreatePostReq
	if err := c.BindAndValidate(&req); err != nil {
		respondError(c, 400, "参数错误")
		return
	}
	if req.Title == "" {
		respondError(c, 400, "title is required")
		return
	}

	post := postmodel.Post{
		Title:    req.Title,
		Content:  req.Content,
		MediaURL: req.MediaURL,
		AuthorID: identity.UserID,
	}
	if err := h.Posts.CreatePost(&post); err != nil {
		respondRepoError(c, err)
		return
	}
	post.Author.ID = identity.UserID
	post.Author.Username = identity.Username

	c.JSON(201, toPostRes(post))
}

// List 文章列表，支持 ?author=<id> 过滤
func (h *PostHandler) List(ctx context.Context, c *app.RequestContext) {
	var authorID int64
	if v := c.Query("author"); v != "" {
		id, err := auth.NormalizeSubjectID(v)
		if err != nil {
			respondError(c, 400, "invalid author id")
			return
		}
		authorID = id
	}

	posts, err := h.Posts.List(authorID)
	if err != nil {
		respondRepoError(c, err)
		return
	}

	res := make([]model.PostRes, 0, len(posts))
	for _, post := range posts {
		res = append(res, toPostRes(post))
	}
	c.JSON(200, res)
}

// Get 文章详情
func (h *PostHandler) Get(ctx context.Context, c *app.RequestContext) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, 400, "invalid post id")
		return
	}

	post, err := h.Posts.QueryByID(id)
	if err != nil {
		respondRepoError(c, err)
		return
	}
	c.JSON(200, toPostRes(post))
}

// Update 编辑文章。先做所有权检查：仅作者本人可编辑，
// 否则403且文章保持原状
func (h *PostHandler) Update(ctx context.Context, c *app.RequestContext) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		respondError(c, 401, "unauthorized")
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, 400, "invalid post id")
		return
	}

	var req model.UpdatePostReq
	if err := c.BindAndValidate(&req); err != nil {
		respondError(c, 400, "参数错误")
		return
	}
	if req.Title == "" {
		respondError(c, 400, "title is required")
		return
	}

	post, err := h.Posts.QueryByID(id)
	if err != nil {
		respondRepoError(c, err)
		return
	}

	if err := auth.Authorize(identity.UserID, post.AuthorID); err != nil {
		respondRepoError(c, err)
		return
	}

	updated, err := h.Posts.UpdatePost(id, req.Title, req.Content)
	if err != nil {
		respondRepoError(c, err)
		return
	}
	c.JSON(200, toPostRes(updated))
}

// Delete 删除文章，所有权规则与编辑一致：仅作者本人
func (h *PostHandler) Delete(ctx context.Context, c *app.RequestContext) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		respondError(c, 401, "unauthorized")
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, 400, "invalid post id")
		return
	}

	post, err := h.Posts.QueryByID(id)
	if err != nil {
		respondRepoError(c, err)
		return
	}

	if err := auth.Authorize(identity.UserID, post.AuthorID); err != nil {
		respondRepoError(c, err)
		return
	}

	if err := h.Posts.DeletePost(id); err != nil {
		respondRepoError(c, err)
		return
	}
	c.JSON(200, utils.H{"message": "post deleted"})
}

func toPostRes(post postmodel.Post) model.PostRes {
	return model.PostRes{
		ID:         post.ID,
		Title:      post.Title,
		Content:    post.Content,
		MediaURL:   post.MediaURL,
		AuthorID:   post.AuthorID,
		AuthorName: post.Author.Username,
		CreatedAt:  post.CreatedAt,
		UpdatedAt:  post.UpdatedAt,
	}
}
