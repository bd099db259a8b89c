package main

import (
	"encoding/csv"
	"errors"
	"flag"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/user/cinematch/internal/config"
	"github.com/user/cinematch/internal/model"
	"github.com/user/cinematch/internal/repository"
)

// CSV 列：title,genres,directors,actors,summary,year,rating,poster
// genres 内部用 | 分隔；year/rating/poster 可以为空
func main() {
	csvPath := flag.String("file", "data/movies.csv", "影片目录 CSV 文件路径")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("未找到 .env 文件，使用系统环境变量")
	}

	cfg := config.Load()

	db, err := repository.InitDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}
	sqlDB, _ := db.DB()
	defer sqlDB.Close()

	repos := repository.NewRepositories(db)

	f, err := os.Open(*csvPath)
	if err != nil {
		log.Fatalf("打开 CSV 失败: %v", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = 8

	// 跳过表头
	if _, err := reader.Read(); err != nil {
		log.Fatalf("读取表头失败: %v", err)
	}

	var imported, skipped int
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Fatalf("读取 CSV 失败: %v", err)
		}

		movie, err := parseRow(record)
		if err != nil {
			log.Printf("[Seed] 跳过非法行: %v", err)
			skipped++
			continue
		}

		if err := repos.Movie.Append(movie); err != nil {
			if errors.Is(err, repository.ErrTitleExists) {
				skipped++
				continue
			}
			log.Fatalf("影片入库失败 (%s): %v", movie.Title, err)
		}
		imported++
	}

	log.Printf("[Seed] 导入完成: 新增 %d 部，跳过 %d 部", imported, skipped)
}

// parseRow 解析一行 CSV 为影片记录
func parseRow(record []string) (*model.Movie, error) {
	title := strings.TrimSpace(record[0])
	summary := strings.TrimSpace(record[4])
	if title == "" || summary == "" {
		return nil, errors.New("标题和简介不能为空")
	}

	movie := &model.Movie{
		Title:     title,
		Directors: strings.TrimSpace(record[2]),
		Actors:    strings.TrimSpace(record[3]),
		Summary:   summary,
		Poster:    strings.TrimSpace(record[7]),
	}

	for _, g := range strings.Split(record[1], "|") {
		if g = strings.TrimSpace(g); g != "" {
			movie.Genres = append(movie.Genres, g)
		}
	}

	if y := strings.TrimSpace(record[5]); y != "" {
		year, err := strconv.Atoi(y)
		if err != nil {
			return nil, errors.New("年份格式有误: " + y)
		}
		movie.Year = year
	}

	if r := strings.TrimSpace(record[6]); r != "" {
		rating, err := strconv.ParseFloat(r, 64)
		if err != nil {
			return nil, errors.New("评分格式有误: " + r)
		}
		movie.Rating = rating
	}

	return movie, nil
}
