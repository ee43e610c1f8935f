package illustration

import "errors"

var (
	// ErrNotConfigured 图片服务凭证缺失
	ErrNotConfigured = errors.New("image provider not configured")
	// ErrBillingRequired 欠费或额度耗尽，整批中止
	ErrBillingRequired = errors.New("image provider billing required")
	// ErrNoImages 没有任何页面生成成功
	ErrNoImages = errors.New("no images generated")
)
