package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/Xushengqwer/go-common/commonerrors"
	commonConfig "github.com/Xushengqwer/go-common/config"
	"github.com/Xushengqwer/go-common/core"
	"gorm.io/gorm"

	"github.com/Xushengqwer/wall_service/models/dto"
	"github.com/Xushengqwer/wall_service/models/entities"
	"github.com/Xushengqwer/wall_service/models/events"
	"github.com/Xushengqwer/wall_service/models/vo"
	"github.com/Xushengqwer/wall_service/myErrors"
)

// 本文件提供服务层测试共享的内存版仓库实现。
// 服务内部存在异步写缓存的 goroutine，所有假实现都用互斥锁保护。

func newTestLogger(t *testing.T) *core.ZapLogger {
	t.Helper()
	logger, err := core.NewZapLogger(commonConfig.ZapConfig{})
	if err != nil {
		t.Fatalf("初始化测试 logger 失败: %v", err)
	}
	return logger
}

// --- 事务管理 ---

// fakeTxManager 直接以 nil 事务句柄执行回调，假仓库忽略该句柄。
type fakeTxManager struct{}

func (m *fakeTxManager) WithTransaction(_ context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

// --- 墙仓库 ---

type fakeWallRepo struct {
	mu     sync.Mutex
	walls  map[uint64]*entities.Wall
	nextID uint64
}

func newFakeWallRepo() *fakeWallRepo {
	return &fakeWallRepo{walls: make(map[uint64]*entities.Wall), nextID: 1}
}

func (r *fakeWallRepo) CreateWall(_ context.Context, _ *gorm.DB, wall *entities.Wall) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, w := range r.walls {
		if w.Slug == wall.Slug {
			return gorm.ErrDuplicatedKey
		}
	}
	wall.ID = r.nextID
	r.nextID++
	if wall.CreatedAt.IsZero() {
		wall.CreatedAt = time.Now()
	}
	r.walls[wall.ID] = wall
	return nil
}

func (r *fakeWallRepo) GetWallByID(_ context.Context, id uint64) (*entities.Wall, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	wall, ok := r.walls[id]
	if !ok {
		return nil, commonerrors.ErrRepoNotFound
	}
	copied := *wall
	return &copied, nil
}

func (r *fakeWallRepo) GetWallBySlug(_ context.Context, slug string) (*entities.Wall, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, wall := range r.walls {
		if wall.Slug == slug {
			copied := *wall
			return &copied, nil
		}
	}
	return nil, commonerrors.ErrRepoNotFound
}

func (r *fakeWallRepo) ListActiveWalls(_ context.Context) ([]*entities.Wall, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*entities.Wall
	for _, wall := range r.walls {
		if wall.IsActive {
			copied := *wall
			result = append(result, &copied)
		}
	}
	sortWalls(result)
	return result, nil
}

func (r *fakeWallRepo) ListAllWalls(_ context.Context) ([]*entities.Wall, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*entities.Wall
	for _, wall := range r.walls {
		copied := *wall
		result = append(result, &copied)
	}
	sortWalls(result)
	return result, nil
}

func sortWalls(walls []*entities.Wall) {
	sort.Slice(walls, func(i, j int) bool {
		if walls[i].DisplayOrder != walls[j].DisplayOrder {
			return walls[i].DisplayOrder < walls[j].DisplayOrder
		}
		return walls[i].ID < walls[j].ID
	})
}

func (r *fakeWallRepo) UpdateWallActive(_ context.Context, wallID uint64, isActive bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	wall, ok := r.walls[wallID]
	if !ok {
		return commonerrors.ErrRepoNotFound
	}
	wall.IsActive = isActive
	return nil
}

func (r *fakeWallRepo) IncrementPostsCount(_ context.Context, _ *gorm.DB, wallID uint64, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	wall, ok := r.walls[wallID]
	if !ok {
		return commonerrors.ErrRepoNotFound
	}
	wall.PostsCount += int64(delta)
	return nil
}

// postsCount 读取墙当前的冗余计数，供断言使用。
func (r *fakeWallRepo) postsCount(wallID uint64) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.walls[wallID].PostsCount
}

// --- 帖子仓库 ---

type fakePostRepo struct {
	mu     sync.Mutex
	posts  map[uint64]*entities.Post
	nextID uint64
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: make(map[uint64]*entities.Post), nextID: 1}
}

func (r *fakePostRepo) CreatePost(_ context.Context, _ *gorm.DB, post *entities.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	post.ID = r.nextID
	r.nextID++
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now()
	}
	copied := *post
	r.posts[post.ID] = &copied
	return nil
}

func (r *fakePostRepo) GetPostByID(_ context.Context, id uint64) (*entities.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	post, ok := r.posts[id]
	if !ok {
		return nil, commonerrors.ErrRepoNotFound
	}
	copied := *post
	return &copied, nil
}

func (r *fakePostRepo) ListPostsByWallCursor(_ context.Context, wallID uint64, params *dto.ListPostsByWallRequest) ([]*entities.Post, *time.Time, *uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var candidates []*entities.Post
	for _, post := range r.posts {
		if post.WallID != wallID || !post.IsPublic {
			continue
		}
		if params.LastCreatedAt != nil && params.LastPostID != nil {
			if post.CreatedAt.After(*params.LastCreatedAt) {
				continue
			}
			if post.CreatedAt.Equal(*params.LastCreatedAt) && post.ID >= *params.LastPostID {
				continue
			}
		}
		copied := *post
		candidates = append(candidates, &copied)
	}
	sort.Slice(candidates, func(i, j int) bool {
		if !candidates[i].CreatedAt.Equal(candidates[j].CreatedAt) {
			return candidates[i].CreatedAt.After(candidates[j].CreatedAt)
		}
		return candidates[i].ID > candidates[j].ID
	})

	if len(candidates) <= params.PageSize {
		return candidates, nil, nil, nil
	}
	page := candidates[:params.PageSize]
	last := page[len(page)-1]
	nextCreatedAt := last.CreatedAt
	nextPostID := last.ID
	return page, &nextCreatedAt, &nextPostID, nil
}

func (r *fakePostRepo) ListPostsByAuthor(_ context.Context, authorID string) ([]*entities.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*entities.Post
	for _, post := range r.posts {
		if post.AuthorID == authorID {
			copied := *post
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *fakePostRepo) DeletePost(_ context.Context, _ *gorm.DB, id uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[id]; !ok {
		return commonerrors.ErrRepoNotFound
	}
	delete(r.posts, id)
	return nil
}

func (r *fakePostRepo) IncrementLikesCount(_ context.Context, _ *gorm.DB, postID uint64, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	post, ok := r.posts[postID]
	if !ok {
		return commonerrors.ErrRepoNotFound
	}
	post.LikesCount += int64(delta)
	return nil
}

func (r *fakePostRepo) IncrementCommentsCount(_ context.Context, _ *gorm.DB, postID uint64, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	post, ok := r.posts[postID]
	if !ok {
		return commonerrors.ErrRepoNotFound
	}
	post.CommentsCount += int64(delta)
	return nil
}

// mustAddPost 直接向存储注入一条帖子，绕过服务层校验。
func (r *fakePostRepo) mustAddPost(post *entities.Post) *entities.Post {
	r.mu.Lock()
	defer r.mu.Unlock()
	if post.ID == 0 {
		post.ID = r.nextID
		r.nextID++
	} else if post.ID >= r.nextID {
		r.nextID = post.ID + 1
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now()
	}
	copied := *post
	r.posts[post.ID] = &copied
	return post
}

// --- 点赞仓库 ---

type fakeLikeRepo struct {
	mu    sync.Mutex
	likes map[string]*entities.PostLike // key: "postID:userID"
	// forceDuplicate 模拟并发请求抢先插入命中唯一索引的场景。
	forceDuplicate bool
}

func newFakeLikeRepo() *fakeLikeRepo {
	return &fakeLikeRepo{likes: make(map[string]*entities.PostLike)}
}

func likeKey(postID uint64, userID string) string {
	return fmt.Sprintf("%d:%s", postID, userID)
}

func (r *fakeLikeRepo) InsertLike(_ context.Context, _ *gorm.DB, like *entities.PostLike) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.forceDuplicate {
		return myErrors.ErrLikeAlreadyExists
	}
	key := likeKey(like.PostID, like.UserID)
	if _, ok := r.likes[key]; ok {
		return myErrors.ErrLikeAlreadyExists
	}
	copied := *like
	r.likes[key] = &copied
	return nil
}

func (r *fakeLikeRepo) DeleteLike(_ context.Context, _ *gorm.DB, postID uint64, userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := likeKey(postID, userID)
	if _, ok := r.likes[key]; !ok {
		return false, nil
	}
	delete(r.likes, key)
	return true, nil
}

func (r *fakeLikeRepo) IsLiked(_ context.Context, postID uint64, userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.likes[likeKey(postID, userID)]
	return ok, nil
}

func (r *fakeLikeRepo) ListLikedPostIDs(_ context.Context, userID string, postIDs []uint64) ([]uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []uint64
	for _, postID := range postIDs {
		if _, ok := r.likes[likeKey(postID, userID)]; ok {
			result = append(result, postID)
		}
	}
	return result, nil
}

func (r *fakeLikeRepo) ListLikesByUser(_ context.Context, userID string) ([]*entities.PostLike, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*entities.PostLike
	for _, like := range r.likes {
		if like.UserID == userID {
			copied := *like
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].PostID < result[j].PostID })
	return result, nil
}

func (r *fakeLikeRepo) DeleteLikesByPostID(_ context.Context, _ *gorm.DB, postID uint64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var deleted int64
	for key, like := range r.likes {
		if like.PostID == postID {
			delete(r.likes, key)
			deleted++
		}
	}
	return deleted, nil
}

func (r *fakeLikeRepo) CountLikesByPostID(_ context.Context, postID uint64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, like := range r.likes {
		if like.PostID == postID {
			count++
		}
	}
	return count, nil
}

// --- 评论仓库 ---

type fakeCommentRepo struct {
	mu       sync.Mutex
	comments map[uint64]*entities.PostComment
	nextID   uint64
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: make(map[uint64]*entities.PostComment), nextID: 1}
}

func (r *fakeCommentRepo) CreateComment(_ context.Context, _ *gorm.DB, comment *entities.PostComment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	comment.ID = r.nextID
	r.nextID++
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now()
	}
	copied := *comment
	r.comments[comment.ID] = &copied
	return nil
}

func (r *fakeCommentRepo) GetCommentByID(_ context.Context, commentID uint64) (*entities.PostComment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	comment, ok := r.comments[commentID]
	if !ok {
		return nil, commonerrors.ErrRepoNotFound
	}
	copied := *comment
	return &copied, nil
}

func (r *fakeCommentRepo) ListCommentsByPostID(_ context.Context, postID uint64) ([]*entities.PostComment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*entities.PostComment
	for _, comment := range r.comments {
		if comment.PostID == postID {
			copied := *comment
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (r *fakeCommentRepo) DeleteComment(_ context.Context, _ *gorm.DB, commentID uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.comments[commentID]; !ok {
		return commonerrors.ErrRepoNotFound
	}
	delete(r.comments, commentID)
	return nil
}

func (r *fakeCommentRepo) ListCommentsByUser(_ context.Context, userID string) ([]*entities.PostComment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*entities.PostComment
	for _, comment := range r.comments {
		if comment.AuthorID == userID {
			copied := *comment
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *fakeCommentRepo) DeleteCommentsByPostID(_ context.Context, _ *gorm.DB, postID uint64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var deleted int64
	for id, comment := range r.comments {
		if comment.PostID == postID {
			delete(r.comments, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *fakeCommentRepo) CountCommentsByPostID(_ context.Context, postID uint64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, comment := range r.comments {
		if comment.PostID == postID {
			count++
		}
	}
	return count, nil
}

// --- 信息流首页缓存 ---

type fakeFeedCache struct {
	mu    sync.Mutex
	pages map[uint64][]byte
}

func newFakeFeedCache() *fakeFeedCache {
	return &fakeFeedCache{pages: make(map[uint64][]byte)}
}

func (c *fakeFeedCache) GetWallFeedFirstPage(_ context.Context, wallID uint64) (*vo.WallFeedPageVO, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.pages[wallID]
	if !ok {
		return nil, myErrors.ErrCacheMiss
	}
	// 与真实实现一致：每次命中都反序列化出新副本，调用方的标注不会写回缓存。
	var page vo.WallFeedPageVO
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *fakeFeedCache) SetWallFeedFirstPage(_ context.Context, wallID uint64, page *vo.WallFeedPageVO) error {
	data, err := json.Marshal(page)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pages[wallID] = data
	return nil
}

func (c *fakeFeedCache) InvalidateWallFeed(_ context.Context, wallID uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.pages, wallID)
	return nil
}

func (c *fakeFeedCache) hasPage(wallID uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.pages[wallID]
	return ok
}

// --- 用户点赞集合缓存 ---

type fakeUserLikesCache struct {
	mu   sync.Mutex
	sets map[string]map[uint64]struct{}
}

func newFakeUserLikesCache() *fakeUserLikesCache {
	return &fakeUserLikesCache{sets: make(map[string]map[uint64]struct{})}
}

func (c *fakeUserLikesCache) FilterLikedPostIDs(_ context.Context, userID string, postIDs []uint64) (map[uint64]struct{}, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	set, ok := c.sets[userID]
	if !ok {
		return nil, myErrors.ErrCacheMiss
	}
	result := make(map[uint64]struct{})
	for _, postID := range postIDs {
		if _, liked := set[postID]; liked {
			result[postID] = struct{}{}
		}
	}
	return result, nil
}

func (c *fakeUserLikesCache) RebuildUserLikes(_ context.Context, userID string, likedPostIDs []uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	set := make(map[uint64]struct{}, len(likedPostIDs))
	for _, postID := range likedPostIDs {
		set[postID] = struct{}{}
	}
	c.sets[userID] = set
	return nil
}

func (c *fakeUserLikesCache) AddLike(_ context.Context, userID string, postID uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	set, ok := c.sets[userID]
	if !ok {
		return nil // 集合不存在时不伪造残缺全集，与真实实现一致
	}
	set[postID] = struct{}{}
	return nil
}

func (c *fakeUserLikesCache) RemoveLike(_ context.Context, userID string, postID uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if set, ok := c.sets[userID]; ok {
		delete(set, postID)
	}
	return nil
}

func (c *fakeUserLikesCache) InvalidateUserLikes(_ context.Context, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sets, userID)
	return nil
}

func (c *fakeUserLikesCache) hasSet(userID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.sets[userID]
	return ok
}

// --- Kafka 生产者 ---

type fakeEventProducer struct {
	mu           sync.Mutex
	createdCount int
	deletedCount int
}

func (p *fakeEventProducer) SendWallPostCreatedEvent(_ context.Context, _ events.PostEventData) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.createdCount++
	return nil
}

func (p *fakeEventProducer) SendWallPostDeletedEvent(_ context.Context, _ uint64, _ uint64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.deletedCount++
	return nil
}
