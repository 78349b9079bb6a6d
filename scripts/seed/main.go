package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/inkwell/internal/config"
	"github.com/inkwell/internal/db"
	"github.com/inkwell/internal/service"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// 测试数据生成器
func main() {
	cfg := config.Load()
	gdb, err := db.Init(cfg.DatabasePath)
	if err != nil {
		log.Fatal("数据库初始化失败:", err)
	}

	fmt.Println("开始生成测试数据...")

	users := createTestUsers(gdb)
	posts := createTestPosts(gdb, users)
	createTestComments(gdb, users, posts)

	fmt.Println("测试数据生成完成！")
	fmt.Println("管理员: admin@inkwell.dev (密码: admin123)")
	fmt.Println("读者: reader@inkwell.dev (密码: reader123)")
}

// 创建测试用户
func createTestUsers(gdb *gorm.DB) []db.User {
	var count int64
	gdb.Model(&db.User{}).Count(&count)
	if count > 0 {
		fmt.Println("用户已存在，跳过创建")
		var existing []db.User
		gdb.Find(&existing)
		return existing
	}

	hashedAdmin, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	admin := db.User{
		Name:     "admin",
		Email:    "admin@inkwell.dev",
		Password: string(hashedAdmin),
		Role:     db.RoleAdmin,
		Bio:      "Writes about Go, web infrastructure, and publishing tools.",
	}
	gdb.Create(&admin)

	hashedReader, _ := bcrypt.GenerateFromPassword([]byte("reader123"), bcrypt.DefaultCost)
	reader := db.User{
		Name:     "reader",
		Email:    "reader@inkwell.dev",
		Password: string(hashedReader),
		Role:     db.RoleMember,
	}
	gdb.Create(&reader)

	fmt.Println("✅ 测试用户创建完成")
	return []db.User{admin, reader}
}

// 创建测试文章
func createTestPosts(gdb *gorm.DB, users []db.User) []db.Post {
	var count int64
	gdb.Model(&db.Post{}).Count(&count)
	if count > 0 {
		fmt.Println("文章已存在，跳过创建")
		var existing []db.Post
		gdb.Find(&existing)
		return existing
	}

	author := users[0]

	seeds := []struct {
		title   string
		content string
		tags    []string
		isDraft bool
		views   int64
		likes   int64
	}{
		{
			title:   "Building a Comment System That Scales",
			content: "Threaded comments look simple until the thread gets deep.\n\nThis post walks through a single-level reply model: every reply attaches to a top-level comment, which keeps queries flat and rendering predictable.",
			tags:    []string{"engineering", "go"},
			views:   120,
			likes:   14,
		},
		{
			title:   "Why We Render Markdown on the Server",
			content: "Client-side rendering means shipping a parser to every reader.\n\nServer-side rendering with a sanitizer gives consistent output and a smaller attack surface.",
			tags:    []string{"engineering", "markdown"},
			views:   80,
			likes:   9,
		},
		{
			title:   "Dashboard Metrics Worth Tracking",
			content: "Views and likes are vanity numbers unless you can compare them.\n\nWe aggregate totals, top posts, and tag usage into one summary query batch.",
			tags:    []string{"product", "analytics"},
			views:   45,
			likes:   3,
		},
		{
			title:   "Draft: Notes on Trending Algorithms",
			content: "Raw view counts favor old posts. A decay factor might be worth exploring.",
			tags:    []string{"analytics"},
			isDraft: true,
		},
		{
			title:   "Tagging Posts Without a Taxonomy Committee",
			content: "Free-form tags beat a curated category tree for a small blog. Duplicates and ordering are the author's problem, and that turns out to be fine.",
			tags:    []string{"product"},
			views:   60,
			likes:   7,
		},
	}

	var posts []db.Post
	for _, data := range seeds {
		post := db.Post{
			Title:    data.title,
			Slug:     service.Slugify(data.title),
			Content:  data.content,
			IsDraft:  data.isDraft,
			Views:    data.views,
			Likes:    data.likes,
			AuthorID: author.ID,
		}
		if err := gdb.Create(&post).Error; err != nil {
			log.Printf("创建文章失败: %v", err)
			continue
		}

		for i, tagName := range data.tags {
			tag := db.PostTag{
				PostID:   post.ID,
				Position: i,
				Name:     strings.ToLower(tagName),
			}
			if err := gdb.Create(&tag).Error; err != nil {
				log.Printf("创建标签失败: %v", err)
			}
		}

		posts = append(posts, post)
	}

	fmt.Println("✅ 测试文章创建完成")
	return posts
}

// 创建测试评论（含一层回复）
func createTestComments(gdb *gorm.DB, users []db.User, posts []db.Post) {
	var count int64
	gdb.Model(&db.Comment{}).Count(&count)
	if count > 0 {
		fmt.Println("评论已存在，跳过创建")
		return
	}
	if len(posts) == 0 || len(users) < 2 {
		return
	}

	admin, reader := users[0], users[1]
	post := posts[0]

	top := db.Comment{
		PostID:   post.ID,
		AuthorID: reader.ID,
		Content:  "Single-level threading is a great call. Deep nesting always turns into a scroll nightmare.",
		Depth:    db.CommentDepthTopLevel,
	}
	if err := gdb.Create(&top).Error; err != nil {
		log.Printf("创建评论失败: %v", err)
		return
	}

	reply := db.Comment{
		PostID:   post.ID,
		AuthorID: admin.ID,
		Content:  "Agreed. We tried three levels once and the UI never recovered.",
		ParentID: &top.ID,
		Depth:    db.CommentDepthReply,
	}
	if err := gdb.Create(&reply).Error; err != nil {
		log.Printf("创建回复失败: %v", err)
	}

	second := db.Comment{
		PostID:   post.ID,
		AuthorID: admin.ID,
		Content:  "Thanks for reading! More on the aggregation side next week.",
		Depth:    db.CommentDepthTopLevel,
	}
	if err := gdb.Create(&second).Error; err != nil {
		log.Printf("创建评论失败: %v", err)
	}

	fmt.Println("✅ 测试评论创建完成")
}
