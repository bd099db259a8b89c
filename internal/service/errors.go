package service

import "errors"

// 推荐引擎的错误类型。
// 过滤后结果为空属于正常返回，不会落到这里任何一种。
var (
	// ErrEmptyCatalog 可用影片不足两部，推荐无意义
	ErrEmptyCatalog = errors.New("目录中可用影片不足")
	// ErrNotFound 查询标题不在目录中，且未开启自由文本查询
	ErrNotFound = errors.New("影片不存在")
	// ErrInvalidQuery 查询内容为空
	ErrInvalidQuery = errors.New("查询内容不能为空")
	// ErrVocabularyBuild 语料退化（如全部是停用词），无法构建词表
	ErrVocabularyBuild = errors.New("无法从语料构建词表")
)
