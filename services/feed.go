package services

import (
	"math"
	"math/rand"
	"os"
	"strconv"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sandeshnepal106/quiz-app/models"
)

// FeedConfig là các hệ số trộn feed, đọc từ env để chỉnh mà không sửa thuật toán
type FeedConfig struct {
	PriorityRatio     float64 // tỉ lệ quiz ưu tiên trong một trang
	PriorityFetchMul  int     // lấy dư pool ưu tiên: limit * mul
	DiscoveryFetchMul int     // lấy dư pool khám phá: limit * mul
}

func DefaultFeedConfig() FeedConfig {
	return FeedConfig{
		PriorityRatio:     0.7,
		PriorityFetchMul:  2,
		DiscoveryFetchMul: 3,
	}
}

// FeedConfigFromEnv đọc hệ số từ biến môi trường, thiếu thì dùng mặc định
func FeedConfigFromEnv() FeedConfig {
	cfg := DefaultFeedConfig()
	if raw := os.Getenv("FEED_PRIORITY_RATIO"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil && v > 0 && v <= 1 {
			cfg.PriorityRatio = v
		}
	}
	if raw := os.Getenv("FEED_PRIORITY_FETCH_MUL"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			cfg.PriorityFetchMul = v
		}
	}
	if raw := os.Getenv("FEED_DISCOVERY_FETCH_MUL"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			cfg.DiscoveryFetchMul = v
		}
	}
	return cfg
}

// FeedService trộn feed từ pool ưu tiên (tác giả đang follow / tag trùng sở thích)
// và pool khám phá (quiz public chưa tương tác, xáo trộn ngẫu nhiên)
type FeedService struct {
	db  *gorm.DB
	cfg FeedConfig
}

func NewFeedService(db *gorm.DB, cfg FeedConfig) *FeedService {
	return &FeedService{db: db, cfg: cfg}
}

// ComposeFeed trả về một trang quiz viewer chưa tương tác và tổng số trang.
// Pool khám phá xáo trộn lại mỗi request nên không phân trang offset được,
// page chỉ dùng để tính totalPages phía client.
func (f *FeedService) ComposeFeed(viewerID uuid.UUID, page, limit int) ([]models.Quiz, int, error) {
	// Bước 1: gom follow, sở thích và các quiz đã tương tác
	var followingIDs []uuid.UUID
	if err := f.db.Model(&models.Follow{}).Where("follower_id = ?", viewerID).
		Pluck("following_id", &followingIDs).Error; err != nil {
		return nil, 0, err
	}

	var interestTagIDs []uuid.UUID
	if err := f.db.Table("user_interests").Where("user_id = ?", viewerID).
		Pluck("tag_id", &interestTagIDs).Error; err != nil {
		return nil, 0, err
	}

	excluded, err := f.excludedQuizIDs(viewerID)
	if err != nil {
		return nil, 0, err
	}

	baseQuery := func() *gorm.DB {
		q := f.db.Model(&models.Quiz{}).Where("is_private = ?", false)
		if len(excluded) > 0 {
			q = q.Where("id NOT IN ?", excluded)
		}
		return q
	}
	selectAuthor := func(tx *gorm.DB) *gorm.DB {
		return tx.Select("id", "name", "username", "profile_pic")
	}

	// Bước 2: pool ưu tiên gồm tác giả đang follow hoặc tag trùng sở thích, mới nhất trước
	var priority []models.Quiz
	if len(followingIDs) > 0 || len(interestTagIDs) > 0 {
		var cond *gorm.DB
		switch {
		case len(followingIDs) > 0 && len(interestTagIDs) > 0:
			cond = f.db.Where("created_by IN ?", followingIDs).
				Or("id IN (SELECT quiz_id FROM quiz_tags WHERE tag_id IN ?)", interestTagIDs)
		case len(followingIDs) > 0:
			cond = f.db.Where("created_by IN ?", followingIDs)
		default:
			cond = f.db.Where("id IN (SELECT quiz_id FROM quiz_tags WHERE tag_id IN ?)", interestTagIDs)
		}
		if err := baseQuery().Where(cond).
			Order("created_at DESC").
			Limit(limit * f.cfg.PriorityFetchMul).
			Preload("Creator", selectAuthor).
			Preload("Tags").
			Find(&priority).Error; err != nil {
			return nil, 0, err
		}
	}

	// Bước 3: pool khám phá lấy mới nhất trước rồi xáo trộn để feed không thuần thời gian
	var discovery []models.Quiz
	if err := baseQuery().
		Order("created_at DESC").
		Limit(limit * f.cfg.DiscoveryFetchMul).
		Preload("Creator", selectAuthor).
		Preload("Tags").
		Find(&discovery).Error; err != nil {
		return nil, 0, err
	}
	rand.Shuffle(len(discovery), func(i, j int) {
		discovery[i], discovery[j] = discovery[j], discovery[i]
	})

	// Bước 4: trộn theo tỉ lệ, khử trùng lặp bằng set id đã thấy
	seen := make(map[uuid.UUID]bool, limit)
	feed := make([]models.Quiz, 0, limit)
	priorityQuota := int(math.Ceil(float64(limit) * f.cfg.PriorityRatio))

	for _, quiz := range priority {
		if len(feed) >= priorityQuota {
			break
		}
		if !seen[quiz.ID] {
			feed = append(feed, quiz)
			seen[quiz.ID] = true
		}
	}
	for _, quiz := range discovery {
		if len(feed) >= limit {
			break
		}
		if !seen[quiz.ID] {
			feed = append(feed, quiz)
			seen[quiz.ID] = true
		}
	}

	// Bước 5: backfill, một pool cạn thì lấp nốt bằng phần còn lại của pool kia
	for _, quiz := range priority {
		if len(feed) >= limit {
			break
		}
		if !seen[quiz.ID] {
			feed = append(feed, quiz)
			seen[quiz.ID] = true
		}
	}
	for _, quiz := range discovery {
		if len(feed) >= limit {
			break
		}
		if !seen[quiz.ID] {
			feed = append(feed, quiz)
			seen[quiz.ID] = true
		}
	}

	// Bước 6: totalPages tính trên toàn bộ quiz chưa bị loại trừ
	var total int64
	if err := baseQuery().Count(&total).Error; err != nil {
		return nil, 0, err
	}
	totalPages := int(math.Ceil(float64(total) / float64(limit)))

	return feed, totalPages, nil
}

// excludedQuizIDs gom các quiz viewer đã like, bình luận, làm bài hoặc tự tạo
func (f *FeedService) excludedQuizIDs(viewerID uuid.UUID) ([]uuid.UUID, error) {
	var liked, commented, attempted, authored []uuid.UUID

	if err := f.db.Model(&models.Like{}).Where("user_id = ?", viewerID).
		Pluck("quiz_id", &liked).Error; err != nil {
		return nil, err
	}
	if err := f.db.Model(&models.Comment{}).Where("user_id = ?", viewerID).
		Pluck("quiz_id", &commented).Error; err != nil {
		return nil, err
	}
	if err := f.db.Model(&models.Attempt{}).Where("user_id = ?", viewerID).
		Pluck("quiz_id", &attempted).Error; err != nil {
		return nil, err
	}
	if err := f.db.Model(&models.Quiz{}).Where("created_by = ?", viewerID).
		Pluck("id", &authored).Error; err != nil {
		return nil, err
	}

	set := make(map[uuid.UUID]bool)
	excluded := make([]uuid.UUID, 0, len(liked)+len(commented)+len(attempted)+len(authored))
	for _, ids := range [][]uuid.UUID{liked, commented, attempted, authored} {
		for _, id := range ids {
			if !set[id] {
				set[id] = true
				excluded = append(excluded, id)
			}
		}
	}
	return excluded, nil
}
