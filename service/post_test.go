package service

import (
	"context"
	"strings"
	"testing"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xushengqwer/wall_service/constant"
	"github.com/Xushengqwer/wall_service/models/dto"
	"github.com/Xushengqwer/wall_service/models/entities"
	"github.com/Xushengqwer/wall_service/myErrors"
)

type postServiceFixture struct {
	svc         PostService
	wallRepo    *fakeWallRepo
	postRepo    *fakePostRepo
	likeRepo    *fakeLikeRepo
	commentRepo *fakeCommentRepo
	feedCache   *fakeFeedCache
	producer    *fakeEventProducer
}

func newPostServiceFixture(t *testing.T) *postServiceFixture {
	t.Helper()
	f := &postServiceFixture{
		wallRepo:    newFakeWallRepo(),
		postRepo:    newFakePostRepo(),
		likeRepo:    newFakeLikeRepo(),
		commentRepo: newFakeCommentRepo(),
		feedCache:   newFakeFeedCache(),
		producer:    &fakeEventProducer{},
	}
	f.svc = NewPostService(
		&fakeTxManager{},
		f.postRepo,
		f.wallRepo,
		f.likeRepo,
		f.commentRepo,
		f.feedCache,
		f.producer,
		newTestLogger(t),
	)
	return f
}

// mustCreateWall 注入一面启用中的墙并返回其 ID。
func (f *postServiceFixture) mustCreateWall(t *testing.T, slug string) uint64 {
	t.Helper()
	wall := &entities.Wall{Slug: slug, Name: slug, IsActive: true, CreatedBy: "admin-1"}
	require.NoError(t, f.wallRepo.CreateWall(context.Background(), nil, wall))
	return wall.ID
}

func TestCreatePost_Success(t *testing.T) {
	f := newPostServiceFixture(t)
	ctx := context.Background()
	wallID := f.mustCreateWall(t, "confession")

	resp, err := f.svc.CreatePost(ctx, "user-1", &dto.CreatePostRequest{
		WallID:    wallID,
		Content:   "  今天天气不错  ",
		MediaURLs: []string{"https://cdn.example.com/a.jpg"},
	})

	require.NoError(t, err)
	assert.Equal(t, "今天天气不错", resp.Content, "正文应去除首尾空白")
	assert.True(t, resp.IsPublic, "未显式指定可见性时默认公开")
	assert.Equal(t, "user-1", resp.AuthorID)
	assert.Equal(t, int64(1), f.wallRepo.postsCount(wallID), "发帖应在同一事务内将墙计数 +1")
}

func TestCreatePost_RequiresUser(t *testing.T) {
	f := newPostServiceFixture(t)
	wallID := f.mustCreateWall(t, "w")

	_, err := f.svc.CreatePost(context.Background(), "", &dto.CreatePostRequest{WallID: wallID, Content: "hi"})
	assert.ErrorIs(t, err, commonerrors.ErrUserNotLoggedIn)
}

func TestCreatePost_ContentValidation(t *testing.T) {
	f := newPostServiceFixture(t)
	ctx := context.Background()
	wallID := f.mustCreateWall(t, "w")

	// 纯空白正文
	_, err := f.svc.CreatePost(ctx, "user-1", &dto.CreatePostRequest{WallID: wallID, Content: "   \n\t  "})
	assert.ErrorIs(t, err, myErrors.ErrInvalidContent)

	// 按 rune 计超长 (2001 个汉字)
	tooLong := strings.Repeat("字", constant.MaxPostContentLength+1)
	_, err = f.svc.CreatePost(ctx, "user-1", &dto.CreatePostRequest{WallID: wallID, Content: tooLong})
	assert.ErrorIs(t, err, myErrors.ErrInvalidContent)

	// 恰好在上限内
	atLimit := strings.Repeat("字", constant.MaxPostContentLength)
	_, err = f.svc.CreatePost(ctx, "user-1", &dto.CreatePostRequest{WallID: wallID, Content: atLimit})
	assert.NoError(t, err)
}

func TestCreatePost_TooManyMedia(t *testing.T) {
	f := newPostServiceFixture(t)
	wallID := f.mustCreateWall(t, "w")

	urls := make([]string, constant.MaxPostMediaURLs+1)
	for i := range urls {
		urls[i] = "https://cdn.example.com/img.jpg"
	}
	_, err := f.svc.CreatePost(context.Background(), "user-1", &dto.CreatePostRequest{
		WallID: wallID, Content: "带图", MediaURLs: urls,
	})
	assert.ErrorIs(t, err, myErrors.ErrTooManyMedia)
}

func TestCreatePost_WallMissingOrInactive(t *testing.T) {
	f := newPostServiceFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreatePost(ctx, "user-1", &dto.CreatePostRequest{WallID: 404, Content: "hi"})
	assert.ErrorIs(t, err, commonerrors.ErrRepoNotFound)

	wall := &entities.Wall{Slug: "closed", Name: "closed", IsActive: false, CreatedBy: "a"}
	require.NoError(t, f.wallRepo.CreateWall(ctx, nil, wall))
	_, err = f.svc.CreatePost(ctx, "user-1", &dto.CreatePostRequest{WallID: wall.ID, Content: "hi"})
	assert.ErrorIs(t, err, myErrors.ErrWallInactive)
}

func TestGetPost_PrivateVisibility(t *testing.T) {
	f := newPostServiceFixture(t)
	ctx := context.Background()
	wallID := f.mustCreateWall(t, "w")

	post := f.postRepo.mustAddPost(&entities.Post{WallID: wallID, AuthorID: "author-1", Content: "私密", IsPublic: false})

	// 作者本人可见
	resp, err := f.svc.GetPost(ctx, post.ID, "author-1")
	require.NoError(t, err)
	assert.Equal(t, "私密", resp.Content)

	// 其他人与匿名访客视同未找到
	_, err = f.svc.GetPost(ctx, post.ID, "other")
	assert.ErrorIs(t, err, commonerrors.ErrRepoNotFound)
	_, err = f.svc.GetPost(ctx, post.ID, "")
	assert.ErrorIs(t, err, commonerrors.ErrRepoNotFound)
}

func TestGetPost_DecoratesIsLiked(t *testing.T) {
	f := newPostServiceFixture(t)
	ctx := context.Background()
	wallID := f.mustCreateWall(t, "w")

	post := f.postRepo.mustAddPost(&entities.Post{WallID: wallID, AuthorID: "author-1", Content: "hi", IsPublic: true})
	require.NoError(t, f.likeRepo.InsertLike(ctx, nil, &entities.PostLike{PostID: post.ID, UserID: "fan-1"}))

	resp, err := f.svc.GetPost(ctx, post.ID, "fan-1")
	require.NoError(t, err)
	assert.True(t, resp.IsLiked)

	resp, err = f.svc.GetPost(ctx, post.ID, "stranger")
	require.NoError(t, err)
	assert.False(t, resp.IsLiked)
}

func TestDeletePost_Authorization(t *testing.T) {
	f := newPostServiceFixture(t)
	ctx := context.Background()
	wallID := f.mustCreateWall(t, "w")
	post := f.postRepo.mustAddPost(&entities.Post{WallID: wallID, AuthorID: "author-1", Content: "hi", IsPublic: true})

	assert.ErrorIs(t, f.svc.DeletePost(ctx, post.ID, "", ""), commonerrors.ErrUserNotLoggedIn)
	assert.ErrorIs(t, f.svc.DeletePost(ctx, post.ID, "stranger", "user"), myErrors.ErrForbidden)

	// 管理员可以删除他人的帖子
	require.NoError(t, f.svc.DeletePost(ctx, post.ID, "mod-1", constant.RoleAdmin))
	_, err := f.postRepo.GetPostByID(ctx, post.ID)
	assert.ErrorIs(t, err, commonerrors.ErrRepoNotFound)
}

func TestDeletePost_CascadesAndDecrementsWallCount(t *testing.T) {
	f := newPostServiceFixture(t)
	ctx := context.Background()
	wallID := f.mustCreateWall(t, "w")

	resp, err := f.svc.CreatePost(ctx, "author-1", &dto.CreatePostRequest{WallID: wallID, Content: "即将删除"})
	require.NoError(t, err)
	require.Equal(t, int64(1), f.wallRepo.postsCount(wallID))

	require.NoError(t, f.likeRepo.InsertLike(ctx, nil, &entities.PostLike{PostID: resp.ID, UserID: "fan-1"}))
	require.NoError(t, f.likeRepo.InsertLike(ctx, nil, &entities.PostLike{PostID: resp.ID, UserID: "fan-2"}))
	require.NoError(t, f.commentRepo.CreateComment(ctx, nil, &entities.PostComment{PostID: resp.ID, AuthorID: "fan-1", Content: "沙发"}))

	require.NoError(t, f.svc.DeletePost(ctx, resp.ID, "author-1", ""))

	assert.Equal(t, int64(0), f.wallRepo.postsCount(wallID), "删帖应在同一事务内将墙计数 -1")
	likeCount, err := f.likeRepo.CountLikesByPostID(ctx, resp.ID)
	require.NoError(t, err)
	assert.Zero(t, likeCount, "帖子的点赞应被级联清理")
	commentCount, err := f.commentRepo.CountCommentsByPostID(ctx, resp.ID)
	require.NoError(t, err)
	assert.Zero(t, commentCount, "帖子的评论应被级联清理")
}

func TestDeletePost_NotFound(t *testing.T) {
	f := newPostServiceFixture(t)
	assert.ErrorIs(t, f.svc.DeletePost(context.Background(), 404, "user-1", ""), commonerrors.ErrRepoNotFound)
}
