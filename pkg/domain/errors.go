package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidImage はアップロード画像をデコードできなかったことを示します。
	ErrInvalidImage = errors.New("invalid image")
	// ErrNoModelAvailable はカタログに利用可能な生成モデルがないことを示します。
	ErrNoModelAvailable = errors.New("no model available")
	// ErrServiceError はバックエンド呼び出し自体の失敗です。詳細は *ServiceError を参照します。
	ErrServiceError = errors.New("service error")
	// ErrEmptyResponse はサービスがパーツを1つも返さなかったことを示します。
	ErrEmptyResponse = errors.New("empty response")
	// ErrNoImageProduced はパーツはあるが画像が含まれていなかったことを示します。
	ErrNoImageProduced = errors.New("no image produced")

	ErrUnknownStyle       = errors.New("unknown style")
	ErrUnknownAspectRatio = errors.New("unknown aspect ratio")
	ErrUnknownFlow        = errors.New("unknown flow")
)

// ServiceError はバックエンドの生のエラー内容を保持します。解析はしません。
type ServiceError struct {
	Op    string
	Model string
	Err   error
}

func (e *ServiceError) Error() string {
	if e.Model == "" {
		return fmt.Sprintf("service error (%s): %v", e.Op, e.Err)
	}
	return fmt.Sprintf("service error (%s, model=%s): %v", e.Op, e.Model, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// Is は errors.Is(err, ErrServiceError) を成立させます。
func (e *ServiceError) Is(target error) bool {
	return target == ErrServiceError
}
