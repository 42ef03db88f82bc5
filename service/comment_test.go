package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xushengqwer/wall_service/constant"
	"github.com/Xushengqwer/wall_service/models/dto"
	"github.com/Xushengqwer/wall_service/models/entities"
	"github.com/Xushengqwer/wall_service/myErrors"
)

type commentServiceFixture struct {
	svc         CommentService
	postRepo    *fakePostRepo
	commentRepo *fakeCommentRepo
}

func newCommentServiceFixture(t *testing.T) *commentServiceFixture {
	t.Helper()
	f := &commentServiceFixture{
		postRepo:    newFakePostRepo(),
		commentRepo: newFakeCommentRepo(),
	}
	f.svc = NewCommentService(&fakeTxManager{}, f.commentRepo, f.postRepo, newTestLogger(t))
	return f
}

func TestAddComment_Success(t *testing.T) {
	f := newCommentServiceFixture(t)
	ctx := context.Background()
	post := f.postRepo.mustAddPost(&entities.Post{WallID: 1, AuthorID: "author-1", Content: "hi", IsPublic: true})

	resp, err := f.svc.AddComment(ctx, post.ID, "fan-1", &dto.AddCommentRequest{Content: "  沙发  "})
	require.NoError(t, err)
	assert.Equal(t, "沙发", resp.Content, "正文应去除首尾空白")
	assert.Equal(t, "fan-1", resp.AuthorID)
	assert.Equal(t, post.ID, resp.PostID)

	stored, err := f.postRepo.GetPostByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stored.CommentsCount, "评论应在同一事务内将帖子计数 +1")
}

func TestAddComment_Validation(t *testing.T) {
	f := newCommentServiceFixture(t)
	ctx := context.Background()
	post := f.postRepo.mustAddPost(&entities.Post{WallID: 1, AuthorID: "author-1", Content: "hi", IsPublic: true})

	_, err := f.svc.AddComment(ctx, post.ID, "", &dto.AddCommentRequest{Content: "ok"})
	assert.ErrorIs(t, err, commonerrors.ErrUserNotLoggedIn)

	_, err = f.svc.AddComment(ctx, post.ID, "fan-1", &dto.AddCommentRequest{Content: "   "})
	assert.ErrorIs(t, err, myErrors.ErrInvalidContent)

	tooLong := strings.Repeat("评", constant.MaxCommentContentLength+1)
	_, err = f.svc.AddComment(ctx, post.ID, "fan-1", &dto.AddCommentRequest{Content: tooLong})
	assert.ErrorIs(t, err, myErrors.ErrInvalidContent)
}

func TestAddComment_PrivatePostHiddenFromOthers(t *testing.T) {
	f := newCommentServiceFixture(t)
	ctx := context.Background()
	post := f.postRepo.mustAddPost(&entities.Post{WallID: 1, AuthorID: "author-1", Content: "私密", IsPublic: false})

	_, err := f.svc.AddComment(ctx, post.ID, "stranger", &dto.AddCommentRequest{Content: "看不到吧"})
	assert.ErrorIs(t, err, commonerrors.ErrRepoNotFound)

	_, err = f.svc.AddComment(ctx, post.ID, "author-1", &dto.AddCommentRequest{Content: "自言自语"})
	assert.NoError(t, err)
}

func TestListComments_OldestFirst(t *testing.T) {
	f := newCommentServiceFixture(t)
	ctx := context.Background()
	post := f.postRepo.mustAddPost(&entities.Post{WallID: 1, AuthorID: "author-1", Content: "hi", IsPublic: true})

	base := time.Now()
	c1 := &entities.PostComment{PostID: post.ID, AuthorID: "u1", Content: "第一条"}
	c1.CreatedAt = base
	require.NoError(t, f.commentRepo.CreateComment(ctx, nil, c1))
	c2 := &entities.PostComment{PostID: post.ID, AuthorID: "u2", Content: "第二条"}
	c2.CreatedAt = base.Add(time.Second)
	require.NoError(t, f.commentRepo.CreateComment(ctx, nil, c2))

	resp, err := f.svc.ListComments(ctx, post.ID, "")
	require.NoError(t, err)
	require.Len(t, resp.Comments, 2)
	assert.Equal(t, "第一条", resp.Comments[0].Content, "评论应按发表时间从旧到新排列")
	assert.Equal(t, "第二条", resp.Comments[1].Content)
}

func TestDeleteComment_Authorization(t *testing.T) {
	f := newCommentServiceFixture(t)
	ctx := context.Background()
	post := f.postRepo.mustAddPost(&entities.Post{WallID: 1, AuthorID: "author-1", Content: "hi", IsPublic: true, CommentsCount: 1})
	comment := &entities.PostComment{PostID: post.ID, AuthorID: "fan-1", Content: "沙发"}
	require.NoError(t, f.commentRepo.CreateComment(ctx, nil, comment))

	assert.ErrorIs(t, f.svc.DeleteComment(ctx, comment.ID, "", ""), commonerrors.ErrUserNotLoggedIn)
	assert.ErrorIs(t, f.svc.DeleteComment(ctx, comment.ID, "stranger", "user"), myErrors.ErrForbidden)

	require.NoError(t, f.svc.DeleteComment(ctx, comment.ID, "fan-1", ""))
	_, err := f.commentRepo.GetCommentByID(ctx, comment.ID)
	assert.ErrorIs(t, err, commonerrors.ErrRepoNotFound)

	stored, err := f.postRepo.GetPostByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stored.CommentsCount, "删评应在同一事务内将帖子计数 -1")
}

func TestDeleteComment_AdminCanRemoveOthers(t *testing.T) {
	f := newCommentServiceFixture(t)
	ctx := context.Background()
	post := f.postRepo.mustAddPost(&entities.Post{WallID: 1, AuthorID: "author-1", Content: "hi", IsPublic: true, CommentsCount: 1})
	comment := &entities.PostComment{PostID: post.ID, AuthorID: "fan-1", Content: "违规内容"}
	require.NoError(t, f.commentRepo.CreateComment(ctx, nil, comment))

	require.NoError(t, f.svc.DeleteComment(ctx, comment.ID, "mod-1", constant.RoleAdmin))
	_, err := f.commentRepo.GetCommentByID(ctx, comment.ID)
	assert.ErrorIs(t, err, commonerrors.ErrRepoNotFound)
}

func TestDeleteComment_NotFound(t *testing.T) {
	f := newCommentServiceFixture(t)
	assert.ErrorIs(t, f.svc.DeleteComment(context.Background(), 404, "fan-1", ""), commonerrors.ErrRepoNotFound)
}
