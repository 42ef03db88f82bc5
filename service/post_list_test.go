package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xushengqwer/wall_service/constant"
	"github.com/Xushengqwer/wall_service/models/dto"
	"github.com/Xushengqwer/wall_service/models/entities"
)

type postListFixture struct {
	svc        PostListService
	wallRepo   *fakeWallRepo
	postRepo   *fakePostRepo
	likeRepo   *fakeLikeRepo
	feedCache  *fakeFeedCache
	likesCache *fakeUserLikesCache
}

func newPostListFixture(t *testing.T) *postListFixture {
	t.Helper()
	f := &postListFixture{
		wallRepo:   newFakeWallRepo(),
		postRepo:   newFakePostRepo(),
		likeRepo:   newFakeLikeRepo(),
		feedCache:  newFakeFeedCache(),
		likesCache: newFakeUserLikesCache(),
	}
	f.svc = NewPostListService(f.postRepo, f.wallRepo, f.likeRepo, f.feedCache, f.likesCache, newTestLogger(t))
	return f
}

func (f *postListFixture) mustCreateWall(t *testing.T, slug string, active bool) uint64 {
	t.Helper()
	wall := &entities.Wall{Slug: slug, Name: slug, IsActive: active, CreatedBy: "admin-1"}
	require.NoError(t, f.wallRepo.CreateWall(context.Background(), nil, wall))
	return wall.ID
}

// seedPosts 按秒递增的创建时间注入 n 条公开帖子，最新的时间最大。
func (f *postListFixture) seedPosts(t *testing.T, wallID uint64, n int) {
	t.Helper()
	base := time.Now().Add(-time.Hour)
	for i := 0; i < n; i++ {
		post := &entities.Post{WallID: wallID, AuthorID: "author-1", Content: fmt.Sprintf("帖子 %d", i), IsPublic: true}
		post.CreatedAt = base.Add(time.Duration(i) * time.Second)
		f.postRepo.mustAddPost(post)
	}
}

func TestListWallFeed_WallMissingOrInactive(t *testing.T) {
	f := newPostListFixture(t)
	ctx := context.Background()
	req := &dto.ListPostsByWallRequest{PageSize: 10}

	_, err := f.svc.ListWallFeed(ctx, 404, "", req)
	assert.ErrorIs(t, err, commonerrors.ErrRepoNotFound)

	wallID := f.mustCreateWall(t, "closed", false)
	_, err = f.svc.ListWallFeed(ctx, wallID, "", req)
	assert.ErrorIs(t, err, commonerrors.ErrRepoNotFound, "停用的墙对外应等同于不存在")
}

func TestListWallFeed_NewestFirstWithCursor(t *testing.T) {
	f := newPostListFixture(t)
	ctx := context.Background()
	wallID := f.mustCreateWall(t, "feed", true)
	f.seedPosts(t, wallID, 25)

	// 第一页：10 条，最新的在前
	page, err := f.svc.ListWallFeed(ctx, wallID, "", &dto.ListPostsByWallRequest{PageSize: 10})
	require.NoError(t, err)
	require.Len(t, page.Posts, 10)
	assert.Equal(t, "帖子 24", page.Posts[0].Content)
	assert.Equal(t, "帖子 15", page.Posts[9].Content)
	require.NotNil(t, page.NextCreatedAt, "还有更多数据时应返回游标")
	require.NotNil(t, page.NextPostID)

	// 第二页：从游标继续
	page2, err := f.svc.ListWallFeed(ctx, wallID, "", &dto.ListPostsByWallRequest{
		LastCreatedAt: page.NextCreatedAt,
		LastPostID:    page.NextPostID,
		PageSize:      10,
	})
	require.NoError(t, err)
	require.Len(t, page2.Posts, 10)
	assert.Equal(t, "帖子 14", page2.Posts[0].Content)
	require.NotNil(t, page2.NextCreatedAt)

	// 第三页：剩余 5 条，游标为 nil 表示没有更多
	page3, err := f.svc.ListWallFeed(ctx, wallID, "", &dto.ListPostsByWallRequest{
		LastCreatedAt: page2.NextCreatedAt,
		LastPostID:    page2.NextPostID,
		PageSize:      10,
	})
	require.NoError(t, err)
	require.Len(t, page3.Posts, 5)
	assert.Nil(t, page3.NextCreatedAt)
	assert.Nil(t, page3.NextPostID)
}

func TestListWallFeed_ExcludesPrivatePosts(t *testing.T) {
	f := newPostListFixture(t)
	ctx := context.Background()
	wallID := f.mustCreateWall(t, "feed", true)

	f.postRepo.mustAddPost(&entities.Post{WallID: wallID, AuthorID: "a", Content: "公开", IsPublic: true})
	f.postRepo.mustAddPost(&entities.Post{WallID: wallID, AuthorID: "a", Content: "私密", IsPublic: false})

	page, err := f.svc.ListWallFeed(ctx, wallID, "a", &dto.ListPostsByWallRequest{PageSize: 10})
	require.NoError(t, err)
	require.Len(t, page.Posts, 1, "信息流只包含公开帖子，作者的私密帖也不例外")
	assert.Equal(t, "公开", page.Posts[0].Content)
}

func TestListWallFeed_DefaultFirstPageBackfillsCache(t *testing.T) {
	f := newPostListFixture(t)
	ctx := context.Background()
	wallID := f.mustCreateWall(t, "feed", true)
	f.seedPosts(t, wallID, 3)

	req := &dto.ListPostsByWallRequest{PageSize: constant.DefaultFeedPageSize}
	require.False(t, f.feedCache.hasPage(wallID))

	page, err := f.svc.ListWallFeed(ctx, wallID, "", req)
	require.NoError(t, err)
	require.Len(t, page.Posts, 3)
	assert.True(t, f.feedCache.hasPage(wallID), "首个默认页未命中时应回填缓存")

	// 第二次请求命中缓存：新写入的帖子在缓存失效/刷新前不可见
	f.seedPosts(t, wallID, 1)
	page, err = f.svc.ListWallFeed(ctx, wallID, "", req)
	require.NoError(t, err)
	assert.Len(t, page.Posts, 3, "命中缓存快照时不回源数据库")
}

func TestListWallFeed_NonDefaultPageBypassesCache(t *testing.T) {
	f := newPostListFixture(t)
	ctx := context.Background()
	wallID := f.mustCreateWall(t, "feed", true)
	f.seedPosts(t, wallID, 3)

	_, err := f.svc.ListWallFeed(ctx, wallID, "", &dto.ListPostsByWallRequest{PageSize: 10})
	require.NoError(t, err)
	assert.False(t, f.feedCache.hasPage(wallID), "非默认页大小的请求不应触碰整页缓存")
}

func TestListWallFeed_DecoratesLikesFromCache(t *testing.T) {
	f := newPostListFixture(t)
	ctx := context.Background()
	wallID := f.mustCreateWall(t, "feed", true)
	f.seedPosts(t, wallID, 3)

	page, err := f.svc.ListWallFeed(ctx, wallID, "", &dto.ListPostsByWallRequest{PageSize: 10})
	require.NoError(t, err)
	likedID := page.Posts[1].ID
	require.NoError(t, f.likesCache.RebuildUserLikes(ctx, "fan-1", []uint64{likedID}))

	page, err = f.svc.ListWallFeed(ctx, wallID, "fan-1", &dto.ListPostsByWallRequest{PageSize: 10})
	require.NoError(t, err)
	for _, p := range page.Posts {
		assert.Equal(t, p.ID == likedID, p.IsLiked)
	}
}

func TestListWallFeed_DecoratesLikesFromDBOnCacheMiss(t *testing.T) {
	f := newPostListFixture(t)
	ctx := context.Background()
	wallID := f.mustCreateWall(t, "feed", true)
	f.seedPosts(t, wallID, 2)

	page, err := f.svc.ListWallFeed(ctx, wallID, "", &dto.ListPostsByWallRequest{PageSize: 10})
	require.NoError(t, err)
	likedID := page.Posts[0].ID
	require.NoError(t, f.likeRepo.InsertLike(ctx, nil, &entities.PostLike{PostID: likedID, UserID: "fan-1"}))

	// 点赞集合缓存为空，应回源数据库完成标注
	page, err = f.svc.ListWallFeed(ctx, wallID, "fan-1", &dto.ListPostsByWallRequest{PageSize: 10})
	require.NoError(t, err)
	assert.True(t, page.Posts[0].IsLiked)
	assert.False(t, page.Posts[1].IsLiked)
}

func TestListWallFeed_AnonymousNeverLiked(t *testing.T) {
	f := newPostListFixture(t)
	ctx := context.Background()
	wallID := f.mustCreateWall(t, "feed", true)
	f.seedPosts(t, wallID, 2)

	page, err := f.svc.ListWallFeed(ctx, wallID, "", &dto.ListPostsByWallRequest{PageSize: 10})
	require.NoError(t, err)
	for _, p := range page.Posts {
		assert.False(t, p.IsLiked)
	}
}
