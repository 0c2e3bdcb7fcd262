package webapi

import "github.com/gin-gonic/gin"

// apiResponse 竞技场接口统一返回结构。成功时data携带结果，
// 失败时error携带可读的失败原因，另一侧字段省略。
type apiResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// respondOK 写出成功响应
func respondOK(c *gin.Context, httpStatus int, data interface{}) {
	c.JSON(httpStatus, apiResponse{
		Success: true,
		Data:    data,
	})
}

// respondFail 写出失败响应
func respondFail(c *gin.Context, httpStatus int, message string) {
	c.JSON(httpStatus, apiResponse{
		Success: false,
		Error:   message,
	})
}
