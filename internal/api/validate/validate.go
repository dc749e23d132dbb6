package validate

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/ksoeasyxiaosi/expert-selection-system/internal/model"
)

// Register 在 Gin 的校验引擎上注册自定义标签
//   - specialty: 值必须属于预定义专业列表
func Register() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin 校验引擎不是 go-playground/validator")
	}
	return v.RegisterValidation("specialty", func(fl validator.FieldLevel) bool {
		return model.IsValidSpecialty(fl.Field().String())
	})
}

// Describe 将绑定错误整理为 "字段: 规则" 形式的详情，按字段名排序
func Describe(err error) string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err.Error()
	}

	fields := make(map[string]string, len(ve))
	for _, fe := range ve {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		fields[fe.Namespace()] = rule
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, fields[k]))
	}
	return strings.Join(parts, "; ")
}
