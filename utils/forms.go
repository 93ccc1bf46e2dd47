package utils

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// NonFieldErrors is the key for errors not tied to a single field
const NonFieldErrors = "__all__"

// Messages shown to users, kept in the wording the login page already uses.
const (
	MsgRequired        = "这个字段是必填项。"
	MsgInvalid         = "输入一个有效的值。"
	MsgInvalidPassword = "用户名或密码错误"
	MsgPasswordTooLong = "确保该值不超过 72 个字节。"
)

// FormErrors maps a field name to its error messages
type FormErrors map[string][]string

// Add appends a message to a field
func (fe FormErrors) Add(field, message string) {
	fe[field] = append(fe[field], message)
}

var registerOnce sync.Once

// RegisterValidatorTagNames makes validation errors report the form/json
// field name instead of the Go struct field name.
func RegisterValidatorTagNames() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			for _, tag := range []string{"form", "json"} {
				name := strings.SplitN(field.Tag.Get(tag), ",", 2)[0]
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return field.Name
		})
	})
}

// ToFormErrors converts a binding error into field level messages.
func ToFormErrors(err error) FormErrors {
	errs := FormErrors{}
	if err == nil {
		return errs
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		errs.Add(NonFieldErrors, MsgInvalid)
		return errs
	}

	for _, fe := range validationErrs {
		errs.Add(fieldName(fe), fieldMessage(fe))
	}
	return errs
}

// fieldName strips the struct prefix from nested namespaces
// ("AnswerSubmission.answers[0].question_id" -> "answers[0].question_id").
func fieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func fieldMessage(fe validator.FieldError) string {
	isString := fe.Kind() == reflect.String

	switch fe.Tag() {
	case "required":
		return MsgRequired
	case "max":
		if isString {
			return fmt.Sprintf("确保该值不超过 %s 个字符（它有 %d 个）。", fe.Param(), runeCount(fe.Value()))
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("确保该列表不超过 %s 项。", fe.Param())
		}
		return fmt.Sprintf("确保该值小于或等于%s。", fe.Param())
	case "min":
		if isString {
			return fmt.Sprintf("确保该值不少于 %s 个字符（它有 %d 个）。", fe.Param(), runeCount(fe.Value()))
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("确保该列表至少有 %s 项。", fe.Param())
		}
		return fmt.Sprintf("确保该值大于或等于%s。", fe.Param())
	default:
		return MsgInvalid
	}
}

func runeCount(value interface{}) int {
	if s, ok := value.(string); ok {
		return utf8.RuneCountInString(s)
	}
	return 0
}
