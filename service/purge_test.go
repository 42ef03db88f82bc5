package service

import (
	"context"
	"testing"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xushengqwer/wall_service/models/dto"
	"github.com/Xushengqwer/wall_service/models/entities"
)

type purgeFixture struct {
	svc         PurgeService
	postSvc     PostService
	wallRepo    *fakeWallRepo
	postRepo    *fakePostRepo
	likeRepo    *fakeLikeRepo
	commentRepo *fakeCommentRepo
	likesCache  *fakeUserLikesCache
}

func newPurgeFixture(t *testing.T) *purgeFixture {
	t.Helper()
	f := &purgeFixture{
		wallRepo:    newFakeWallRepo(),
		postRepo:    newFakePostRepo(),
		likeRepo:    newFakeLikeRepo(),
		commentRepo: newFakeCommentRepo(),
		likesCache:  newFakeUserLikesCache(),
	}
	logger := newTestLogger(t)
	txManager := &fakeTxManager{}
	f.postSvc = NewPostService(txManager, f.postRepo, f.wallRepo, f.likeRepo, f.commentRepo, newFakeFeedCache(), nil, logger)
	f.svc = NewPurgeService(txManager, f.postSvc, f.postRepo, f.likeRepo, f.commentRepo, f.likesCache, logger)
	return f
}

func TestPurgeUserContent_RemovesEverything(t *testing.T) {
	f := newPurgeFixture(t)
	ctx := context.Background()

	wall := &entities.Wall{Slug: "w", Name: "w", IsActive: true, CreatedBy: "admin-1"}
	require.NoError(t, f.wallRepo.CreateWall(ctx, nil, wall))

	// 注销用户自己的帖子，上面有他人的点赞和评论
	ownPost, err := f.postSvc.CreatePost(ctx, "victim", &dto.CreatePostRequest{WallID: wall.ID, Content: "我的帖子"})
	require.NoError(t, err)
	require.NoError(t, f.likeRepo.InsertLike(ctx, nil, &entities.PostLike{PostID: ownPost.ID, UserID: "other-1"}))
	require.NoError(t, f.commentRepo.CreateComment(ctx, nil, &entities.PostComment{PostID: ownPost.ID, AuthorID: "other-1", Content: "路过"}))

	// 他人的帖子，注销用户在上面点过赞、发过评论
	otherPost, err := f.postSvc.CreatePost(ctx, "other-1", &dto.CreatePostRequest{WallID: wall.ID, Content: "别人的帖子"})
	require.NoError(t, err)
	require.NoError(t, f.likeRepo.InsertLike(ctx, nil, &entities.PostLike{PostID: otherPost.ID, UserID: "victim"}))
	require.NoError(t, f.postRepo.IncrementLikesCount(ctx, nil, otherPost.ID, 1))
	require.NoError(t, f.commentRepo.CreateComment(ctx, nil, &entities.PostComment{PostID: otherPost.ID, AuthorID: "victim", Content: "我的评论"}))
	require.NoError(t, f.postRepo.IncrementCommentsCount(ctx, nil, otherPost.ID, 1))

	require.NoError(t, f.likesCache.RebuildUserLikes(ctx, "victim", []uint64{otherPost.ID}))

	require.NoError(t, f.svc.PurgeUserContent(ctx, "victim"))

	// 自己的帖子被级联删除，墙计数只剩他人那一条
	_, err = f.postRepo.GetPostByID(ctx, ownPost.ID)
	assert.ErrorIs(t, err, commonerrors.ErrRepoNotFound)
	assert.Equal(t, int64(1), f.wallRepo.postsCount(wall.ID))

	// 他人帖子上的点赞与评论被撤销，计数同步归零
	likes, err := f.likeRepo.ListLikesByUser(ctx, "victim")
	require.NoError(t, err)
	assert.Empty(t, likes)
	comments, err := f.commentRepo.ListCommentsByUser(ctx, "victim")
	require.NoError(t, err)
	assert.Empty(t, comments)

	stored, err := f.postRepo.GetPostByID(ctx, otherPost.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stored.LikesCount)
	assert.Equal(t, int64(0), stored.CommentsCount)

	// 点赞集合缓存一并清掉
	assert.False(t, f.likesCache.hasSet("victim"))

	// 他人的内容不受影响
	_, err = f.postRepo.GetPostByID(ctx, otherPost.ID)
	assert.NoError(t, err)
}

func TestPurgeUserContent_Idempotent(t *testing.T) {
	f := newPurgeFixture(t)
	ctx := context.Background()

	wall := &entities.Wall{Slug: "w", Name: "w", IsActive: true, CreatedBy: "admin-1"}
	require.NoError(t, f.wallRepo.CreateWall(ctx, nil, wall))
	_, err := f.postSvc.CreatePost(ctx, "victim", &dto.CreatePostRequest{WallID: wall.ID, Content: "hi"})
	require.NoError(t, err)

	require.NoError(t, f.svc.PurgeUserContent(ctx, "victim"))
	// Kafka 消息可能被重复投递，第二次清理必须同样成功
	require.NoError(t, f.svc.PurgeUserContent(ctx, "victim"))

	assert.Equal(t, int64(0), f.wallRepo.postsCount(wall.ID), "重复清理不应让计数变成负数")
}

func TestPurgeUserContent_EmptyUserID(t *testing.T) {
	f := newPurgeFixture(t)
	assert.Error(t, f.svc.PurgeUserContent(context.Background(), ""))
}

func TestPurgeUserContent_NoContent(t *testing.T) {
	f := newPurgeFixture(t)
	assert.NoError(t, f.svc.PurgeUserContent(context.Background(), "ghost"), "没有任何内容的用户清理应直接成功")
}
