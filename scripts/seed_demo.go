// 演示数据种子脚本
//
// 创建一个演示教师账号和一份带加入码的示例测验，方便本地联调前端。
// 重复运行是安全的：已存在的演示账号会被复用。
//
// 用法: go run scripts/seed_demo.go

package main

import (
	"log"
	"mcq_quiz_backend/internal/config"
	"mcq_quiz_backend/internal/model"
	"mcq_quiz_backend/internal/repository"
	"mcq_quiz_backend/internal/util"
	"mcq_quiz_backend/pkg/database"
	"mcq_quiz_backend/pkg/logger"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

func main() {
	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Fatalf("解析配置文件失败: %v", err)
	}

	logger.InitLogger(&cfg)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("数据库迁移失败: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	quizRepo := repository.NewQuizRepository(db)

	teacher, err := userRepo.FindByEmail("demo-teacher@example.com")
	if err == gorm.ErrRecordNotFound {
		hashed, err := bcrypt.GenerateFromPassword([]byte("demo-password"), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("密码加密失败: %v", err)
		}
		teacher = &model.User{
			Name:     "演示教师",
			Email:    "demo-teacher@example.com",
			Password: string(hashed),
			Role:     model.Teacher,
		}
		if err := userRepo.Create(teacher); err != nil {
			log.Fatalf("创建演示教师失败: %v", err)
		}
		log.Println("已创建演示教师 demo-teacher@example.com / demo-password")
	} else if err != nil {
		log.Fatalf("查询演示教师失败: %v", err)
	} else {
		log.Println("演示教师已存在，跳过创建")
	}

	code, err := util.GenerateJoinCode(model.JoinCodeLength)
	if err != nil {
		log.Fatalf("生成加入码失败: %v", err)
	}

	quiz := &model.Quiz{
		Name:            "示例测验：基础常识",
		OwnerID:         teacher.ID,
		Active:          true,
		DurationMinutes: 10,
		Code:            code,
	}
	questions := []model.Question{
		{
			Text:          "一年有多少个月？",
			OptionA:       "10",
			OptionB:       "11",
			OptionC:       "12",
			OptionD:       "13",
			CorrectOption: model.OptionC,
			Points:        1,
			Difficulty:    model.Easy,
		},
		{
			Text:          "水在标准大气压下的沸点是多少摄氏度？",
			OptionA:       "90",
			OptionB:       "100",
			OptionC:       "110",
			OptionD:       "120",
			CorrectOption: model.OptionB,
			Points:        2,
			Difficulty:    model.Easy,
		},
	}

	if err := quizRepo.CreateWithQuestions(quiz, questions); err != nil {
		log.Fatalf("创建示例测验失败: %v", err)
	}
	log.Printf("已创建示例测验，加入码: %s", quiz.Code)
}
