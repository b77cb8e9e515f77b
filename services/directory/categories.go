package directory

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"time"

	"glsalliance/models"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

const (
	categoryCacheKey = "directory:categories:v1"
	// CategoryCacheTTL bounds how stale the sidebar may be.
	CategoryCacheTTL = 10 * time.Minute
)

// BuildTree groups flat rows under their parents. Siblings are sorted by
// name; a row whose parent is unknown is dropped along with its subtree.
func BuildTree(rows []models.CategoryRow) []models.CategoryNode {
	byParent := make(map[string][]models.CategoryRow)
	for _, r := range rows {
		parent := r.ParentID.String()
		byParent[parent] = append(byParent[parent], r)
	}

	col := collate.New(language.English, collate.IgnoreCase)
	visited := make(map[string]bool)

	var build func(parent string) []models.CategoryNode
	build = func(parent string) []models.CategoryNode {
		children := byParent[parent]
		nodes := make([]models.CategoryNode, 0, len(children))
		for _, r := range children {
			id := r.ID.String()
			if visited[id] {
				continue
			}
			visited[id] = true

			node := models.CategoryNode{ID: id, Name: categoryName(r)}
			if parent != "" {
				p := parent
				node.ParentID = &p
			}
			node.Children = build(id)
			nodes = append(nodes, node)
		}
		sort.SliceStable(nodes, func(i, j int) bool {
			return col.CompareString(nodes[i].Name, nodes[j].Name) < 0
		})
		return nodes
	}
	return build("")
}

func categoryName(r models.CategoryRow) string {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		name = strings.TrimSpace(r.Title)
	}
	if name == "" {
		return "Unnamed"
	}
	return name
}

// CategoryTree returns the export category sidebar, cached in Redis.
func (s *Service) CategoryTree(ctx context.Context) ([]models.CategoryNode, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, categoryCacheKey).Bytes()
		if err == nil {
			var tree []models.CategoryNode
			if json.Unmarshal(cached, &tree) == nil {
				return tree, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn("Category cache unavailable", zap.Error(err))
		}
	}

	rows, err := s.backend.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	tree := BuildTree(rows)

	if s.cache != nil {
		if data, err := json.Marshal(tree); err == nil {
			if err := s.cache.Set(ctx, categoryCacheKey, data, CategoryCacheTTL).Err(); err != nil {
				s.logger.Warn("Failed to cache categories", zap.Error(err))
			}
		}
	}
	return tree, nil
}
