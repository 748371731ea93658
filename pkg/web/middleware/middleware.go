package middleware

import (
	"context"
	"fmt"
	"regexp"
	"runtime/debug"
	"strings"
	"sync/atomic"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/hertz-contrib/cors"

	"my-blog-api/pkg/common/config"
)

// LoggerMiddleware 结构化的请求日志记录
func LoggerMiddleware() app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		start := time.Now()
		ctx.Next(c) // 放行到后续处理器
		latency := time.Since(start)

		// 结构化日志输出
		hlog.CtxTracef(c, "| %3d | %13v | %15s | %-7s | %s | UA=%s",
			ctx.Response.StatusCode(),
			latency,
			ctx.ClientIP(),
			ctx.Method(),
			ctx.Path(),
			ctx.GetHeader("User-Agent"),
		)
	}
}

// RecoveryMiddleware 增强型异常捕获（带配置依赖版本）
func RecoveryMiddleware(cfg *config.Config) app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		defer func() {
			if err := recover(); err != nil {
				// 获取调用堆栈
				stack := string(debug.Stack())

				hlog.CtxErrorf(c, "[PANIC RECOVERED] %v\n%s", err, stack)

				// 生产环境不向客户端暴露堆栈
				if cfg.IsProd() {
					ctx.AbortWithStatusJSON(500, map[string]interface{}{
						"code":    500,
						"message": "internal server error",
					})
				} else { // 开发环境显示详细错误
					ctx.AbortWithStatusJSON(500, map[string]interface{}{
						"code":  500,
						"error": fmt.Sprintf("%v", err),
						"stack": strings.Split(stack, "\n"),
					})
				}
			}
		}()
		ctx.Next(c)
	}
}

// CORSMiddleware 安全的跨域配置
func CORSMiddleware(corsConfig config.CORSConfig) app.HandlerFunc {
	return cors.New(
		cors.Config{
			AllowOrigins:     corsConfig.AllowOrigins,
			AllowMethods:     corsConfig.AllowMethods,
			AllowHeaders:     corsConfig.AllowHeaders,
			ExposeHeaders:    corsConfig.ExposeHeaders,
			AllowCredentials: corsConfig.AllowCredentials,
			MaxAge:           corsConfig.MaxAge,
			// 动态校验来源
			AllowOriginFunc: func(origin string) bool {
				for _, allowed := range corsConfig.AllowOrigins {
					if origin == allowed {
						return true
					}
				}
				for _, domain := range corsConfig.TrustedDomains {
					if strings.Contains(origin, domain) {
						return true
					}
				}
				return false
			},
		},
	)
}

func TimeoutMiddleware(seconds int) app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		timeoutCtx, cancel := context.WithTimeout(c, time.Duration(seconds)*time.Second)
		defer cancel()

		// 通过goroutine执行后续处理器
		done := make(chan struct{})
		var panicErr interface{}

		go func() {
			defer func() {
				if r := recover(); r != nil {
					panicErr = r
				}
				close(done)
			}()
			ctx.Next(timeoutCtx)
		}()

		// 监听超时或完成
		select {
		case <-timeoutCtx.Done():
			ctx.AbortWithStatusJSON(503, utils.H{
				"code":    503000,
				"message": "service unavailable",
			})
			hlog.CtxWarnf(timeoutCtx, "request timeout path=%s", ctx.Path())
		case <-done:
			if panicErr != nil {
				panic(panicErr) // 交给全局recovery处理
			}
		}
	}
}

// RateLimitMiddleware 令牌桶算法限流
func RateLimitMiddleware(rate int, interval time.Duration) app.HandlerFunc {
	limiter := NewTokenBucket(rate, interval)

	return func(c context.Context, ctx *app.RequestContext) {
		if !limiter.Allow() {
			hlog.CtxInfof(c, "[RATE LIMIT] path=%s", ctx.Path())
			ctx.AbortWithStatusJSON(429, map[string]interface{}{
				"code":    429001,
				"message": "too many requests",
			})
			return
		}
		ctx.Next(c)
	}
}

// 令牌桶实现
type TokenBucket struct {
	capacity int
	tokens   chan struct{}
	rate     time.Duration
}

func NewTokenBucket(rate int, interval time.Duration) *TokenBucket {
	tb := &TokenBucket{
		capacity: rate,
		tokens:   make(chan struct{}, rate),
		rate:     interval,
	}

	// 初始装满，避免冷启动阶段全部拒绝
	for i := 0; i < rate; i++ {
		tb.tokens <- struct{}{}
	}

	// 定时器生产令牌
	go func() {
		ticker := time.NewTicker(tb.rate)
		for range ticker.C {
			for i := 0; i < tb.capacity; i++ {
				select {
				case tb.tokens <- struct{}{}:
				default:
				}
			}
		}
	}()
	return tb
}

func (tb *TokenBucket) Allow() bool {
	select {
	case <-tb.tokens:
		return true
	default:
		return false
	}
}

// SecurityCheckMiddleware 全局安全校验中间件
func SecurityCheckMiddleware(cfg config.SecurityConfig) app.HandlerFunc {
	// 预编译恶意字符正则
	xssRegex := regexp.MustCompile(`<script.*?>|<\/script>|onerror=`)
	sqlInjectRegex := regexp.MustCompile(`\b(union\s+select|drop\s+table)\b`)

	allowedMethods := make(map[string]bool, len(cfg.AllowedMethods))
	for _, m := range cfg.AllowedMethods {
		allowedMethods[strings.ToUpper(m)] = true
	}

	return func(c context.Context, ctx *app.RequestContext) {
		// 防护机制1：请求体大小限制
		if int64(ctx.Request.Header.ContentLength()) > cfg.MaxBodySize {
			securityResponse(ctx, 413001, "request body exceeds max size", 413)
			return
		}

		// 防护机制2：查询/表单参数恶意字符检查
		if hasMaliciousContent(ctx, xssRegex, sqlInjectRegex) {
			securityResponse(ctx, 422001, "request contains invalid characters", 422)
			return
		}

		// 防护机制3：检查HTTP方法
		if !allowedMethods[string(ctx.Method())] {
			securityResponse(ctx, 405001, "method not allowed", 405)
			return
		}

		ctx.Next(c)
	}
}

// 带性能优化的版本
func hasMaliciousContent(ctx *app.RequestContext, xss *regexp.Regexp, sql *regexp.Regexp) bool {
	// 使用atomic包确保线程安全
	var found int32

	check := func(data []byte) bool {
		return xss.Match(data) || sql.Match(data)
	}

	visitor := func(key, value []byte) {
		if atomic.LoadInt32(&found) == 1 {
			return // 已经找到匹配，跳过后续检查
		}
		if check(key) || check(value) {
			atomic.StoreInt32(&found, 1)
		}
	}

	// 检查Query参数
	ctx.QueryArgs().VisitAll(visitor)
	if atomic.LoadInt32(&found) == 1 {
		return true
	}

	// 检查Post表单参数
	ctx.PostArgs().VisitAll(visitor)
	return atomic.LoadInt32(&found) == 1
}

// 安全响应统一处理
func securityResponse(ctx *app.RequestContext, code int, msg string, status int) {
	hlog.Warnf("SecurityAlert[code=%d]: %s", code, msg)
	ctx.AbortWithStatusJSON(status, map[string]interface{}{
		"code":    code,
		"message": msg,
	})
}
