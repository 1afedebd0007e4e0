package core

import (
	"errors"
	"fmt"
)

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有阶段错误都使用此类型，Stage 标明出错的流水线阶段
//   - 提供错误代码（Code）和消息（Message）
//   - Err 保存底层错误，支持 errors.Is / errors.As
//
// 使用场景：
//   - load：文件不可读、缺少必需列
//   - normalize：userId 非数字、clusterId 为空、重复用户
//   - join：内连接后没有任何用户
//   - split：某个类别样本过少，无法分层
//   - train / evaluate / export：模型、指标与输出错误
type DomainError struct {
	Stage   string // 阶段名称（如 "load", "normalize", "split"）
	Code    string // 错误代码（如 "MISSING_COLUMN", "INVALID_VALUE"）
	Message string // 错误消息
	Err     error  // 底层错误（可选）
}

func (e *DomainError) Error() string {
	msg := e.Message
	if e.Stage != "" {
		msg = e.Stage + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// IsDomainError 检查错误链中是否包含 DomainError
func IsDomainError(err error) bool {
	return GetDomainError(err) != nil
}

// GetDomainError 获取错误链中的第一个 DomainError，如果没有则返回 nil
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}

// NewDomainError 创建新的领域错误
func NewDomainError(stage, code, message string) *DomainError {
	return &DomainError{
		Stage:   stage,
		Code:    code,
		Message: message,
	}
}

// Errorf 创建带格式化消息的领域错误。
func Errorf(stage, code, format string, args ...any) *DomainError {
	return NewDomainError(stage, code, fmt.Sprintf(format, args...))
}

// WrapError 用领域错误包装底层错误；err 为 nil 时返回 nil。
func WrapError(stage, code, message string, err error) error {
	if err == nil {
		return nil
	}
	return &DomainError{
		Stage:   stage,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// 错误代码常量
const (
	ErrorCodeMissingColumn     = "MISSING_COLUMN"     // 缺少必需列
	ErrorCodeInvalidValue      = "INVALID_VALUE"      // 单元格值无法解析
	ErrorCodeEmptyResult       = "EMPTY_RESULT"       // 阶段输出为空
	ErrorCodeInsufficientClass = "INSUFFICIENT_CLASS" // 类别样本不足
	ErrorCodeIO                = "IO_ERROR"           // 文件读写失败
	ErrorCodeInvalidInput      = "INVALID_INPUT"      // 参数/配置无效
	ErrorCodeNotFound          = "NOT_FOUND"          // 资源不存在
	ErrorCodeNotSupported      = "NOT_SUPPORTED"      // 操作不支持
	ErrorCodeInternal          = "INTERNAL_ERROR"     // 内部错误
)

// 阶段名称常量
const (
	StageConfig    = "config"
	StageLoad      = "load"
	StageNormalize = "normalize"
	StageJoin      = "join"
	StageSplit     = "split"
	StageTrain     = "train"
	StageEvaluate  = "evaluate"
	StageExport    = "export"
	StageStore     = "store"
)

// StageOf 返回错误所属阶段；非领域错误返回空字符串。
func StageOf(err error) string {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Stage
	}
	return ""
}

// IsMissingColumn 检查错误是否为 MISSING_COLUMN
func IsMissingColumn(err error) bool {
	return hasCode(err, ErrorCodeMissingColumn)
}

// IsInvalidValue 检查错误是否为 INVALID_VALUE
func IsInvalidValue(err error) bool {
	return hasCode(err, ErrorCodeInvalidValue)
}

// IsInsufficientClass 检查错误是否为 INSUFFICIENT_CLASS
func IsInsufficientClass(err error) bool {
	return hasCode(err, ErrorCodeInsufficientClass)
}

func hasCode(err error, code string) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == code
	}
	return false
}
