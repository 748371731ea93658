// pkg/web/handler/handler_test.go
//
// 通过完整路由栈（中间件链+处理器）驱动的场景测试，
// 存储层用内存假实现替换
package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/ut"
	"github.com/cloudwego/hertz/pkg/protocol"
	"github.com/stretchr/testify/require"

	"my-blog-api/pkg/common/config"
	cerrors "my-blog-api/pkg/common/errors"
	postmodel "my-blog-api/pkg/core/post/model"
	usermodel "my-blog-api/pkg/core/user/model"
	"my-blog-api/pkg/web/router"
)

// fakeStore 内存存储，用户与文章共享一份状态，
// 两个repo包装器分别实现对应接口
type fakeStore struct {
	mu         sync.Mutex
	users      map[int64]usermodel.User
	posts      map[int64]postmodel.Post
	nextUserID int64
	nextPostID int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users: make(map[int64]usermodel.User),
		posts: make(map[int64]postmodel.Post),
	}
}

func (s *fakeStore) withAuthorLocked(post postmodel.Post) postmodel.Post {
	if author, ok := s.users[post.AuthorID]; ok {
		post.Author = usermodel.User{ID: author.ID, Username: author.Username}
	}
	return post
}

type fakeUserRepo struct{ s *fakeStore }

func (r *fakeUserRepo) QueryByID(id int64) (usermodel.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user, ok := r.s.users[id]
	if !ok || !user.IsActive {
		return usermodel.User{}, cerrors.ErrUserNotFound
	}
	user.PasswordHash = "" // 与真实实现一致：按id查询不带哈希
	return user, nil
}

func (r *fakeUserRepo) QueryByEmail(email string) (usermodel.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, user := range r.s.users {
		if user.Email == email && user.IsActive {
			return user, nil
		}
	}
	return usermodel.User{}, cerrors.ErrUserNotFound
}

func (r *fakeUserRepo) IsUsernameExists(username string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, user := range r.s.users {
		if user.Username == username && user.IsActive {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) IsEmailExists(email string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, user := range r.s.users {
		if user.Email == email && user.IsActive {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) CreateUser(user *usermodel.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if existing.Email == user.Email || existing.Username == user.Username {
			return cerrors.ErrDuplicateEntry
		}
	}
	r.s.nextUserID++
	user.ID = r.s.nextUserID
	r.s.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) UpdateProfile(id int64, fields map[string]interface{}) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user, ok := r.s.users[id]
	if !ok {
		return cerrors.ErrUserNotFound
	}
	if v, ok := fields["username"].(string); ok {
		user.Username = v
	}
	if v, ok := fields["bio"].(string); ok {
		user.Bio = v
	}
	if v, ok := fields["profile_pic"].(string); ok {
		user.ProfilePic = v
	}
	r.s.users[id] = user
	return nil
}

func (r *fakeUserRepo) GetPasswordHashByID(id int64) (string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user, ok := r.s.users[id]
	if !ok || !user.IsActive {
		return "", cerrors.ErrUserNotFound
	}
	return user.PasswordHash, nil
}

func (r *fakeUserRepo) UpdatePassword(userID int64, newPwdHash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user, ok := r.s.users[userID]
	if !ok || !user.IsActive {
		return cerrors.ErrUserNotFound
	}
	user.PasswordHash = newPwdHash
	user.Version++
	r.s.users[userID] = user
	return nil
}

func (r *fakeUserRepo) DeleteAccount(id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return cerrors.ErrUserNotFound
	}
	delete(r.s.users, id)
	for postID, post := range r.s.posts {
		if post.AuthorID == id {
			delete(r.s.posts, postID)
		}
	}
	return nil
}

type fakePostRepo struct{ s *fakeStore }

func (r *fakePostRepo) QueryByID(id int64) (postmodel.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	post, ok := r.s.posts[id]
	if !ok {
		return postmodel.Post{}, cerrors.ErrPostNotFound
	}
	return r.s.withAuthorLocked(post), nil
}

func (r *fakePostRepo) List(authorID int64) ([]postmodel.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var posts []postmodel.Post
	for _, post := range r.s.posts {
		if authorID == 0 || post.AuthorID == authorID {
			posts = append(posts, r.s.withAuthorLocked(post))
		}
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].ID > posts[j].ID })
	return posts, nil
}

func (r *fakePostRepo) CreatePost(post *postmodel.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.nextPostID++
	post.ID = r.s.nextPostID
	r.s.posts[post.ID] = *post
	return nil
}

func (r *fakePostRepo) UpdatePost(id int64, title, content string) (postmodel.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	post, ok := r.s.posts[id]
	if !ok {
		return postmodel.Post{}, cerrors.ErrPostNotFound
	}
	post.Title = title
	post.Content = content
	r.s.posts[id] = post
	return r.s.withAuthorLocked(post), nil
}

func (r *fakePostRepo) DeletePost(id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.posts[id]; !ok {
		return cerrors.ErrPostNotFound
	}
	delete(r.s.posts, id)
	return nil
}

func (r *fakePostRepo) CountByAuthor(authorID int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var count int64
	for _, post := range r.s.posts {
		if post.AuthorID == authorID {
			count++
		}
	}
	return count, nil
}

// newTestApp 用假存储和固定配置搭建完整服务
func newTestApp(t *testing.T) (*server.Hertz, *fakeStore) {
	t.Helper()

	cfg := config.Load()
	cfg.Middleware.JWT.Secret = "handler-test-secret"
	cfg.Middleware.RateLimit.Rate = 1000

	store := newFakeStore()
	h := server.New()
	router.RegisterAPIs(h, cfg, &fakeUserRepo{s: store}, &fakePostRepo{s: store}, nil)
	return h, store
}

func doJSON(h *server.Hertz, method, url, body, token string) *protocol.Response {
	var b *ut.Body
	headers := []ut.Header{{Key: "Content-Type", Value: "application/json"}}
	if body != "" {
		b = &ut.Body{Body: bytes.NewBufferString(body), Len: len(body)}
	}
	if token != "" {
		headers = append(headers, ut.Header{Key: "Authorization", Value: "Bearer " + token})
	}
	w := ut.PerformRequest(h.Engine, method, url, b, headers...)
	return w.Result()
}

func decodeJSON(t *testing.T, resp *protocol.Response) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(resp.Body(), &m))
	return m
}

const testPassword = "passw0rd!"

// signupAndLogin 注册并登录，返回会话令牌和用户id
func signupAndLogin(t *testing.T, h *server.Hertz, username, email string) (string, int64) {
	t.Helper()

	resp := doJSON(h, "POST", "/api/users/signup",
		fmt.Sprintf(`{"username":%q,"email":%q,"password":%q}`, username, email, testPassword), "")
	require.Equal(t, 201, resp.StatusCode(), "signup body: %s", resp.Body())

	resp = doJSON(h, "POST", "/api/users/login",
		fmt.Sprintf(`{"email":%q,"password":%q}`, email, testPassword), "")
	require.Equal(t, 200, resp.StatusCode(), "login body: %s", resp.Body())

	m := decodeJSON(t, resp)
	token, _ := m["token"].(string)
	require.NotEmpty(t, token)
	userID, _ := m["user_id"].(float64)
	return token, int64(userID)
}
