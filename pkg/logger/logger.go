package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	Logger *zap.Logger
	Sugar  *zap.SugaredLogger
)

// InitLogger 初始化 zap 日志记录器
// level 不认识时回退到 debug；filename 为空时只输出到控制台
func InitLogger(level, filename string) {
	writeSyncer := getLogWriter(filename)
	encoder := getEncoder()

	logLevel, err := zapcore.ParseLevel(level)
	if err != nil {
		logLevel = zapcore.DebugLevel
	}
	core := zapcore.NewCore(encoder, writeSyncer, logLevel)

	Logger = zap.New(core, zap.AddCaller())
	Sugar = Logger.Sugar()

	// 替换全局 logger，包外可直接 zap.S()/zap.L()
	zap.ReplaceGlobals(Logger)
}

// getEncoder 设置日志编码格式
func getEncoder() zapcore.Encoder {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return zapcore.NewConsoleEncoder(encoderConfig)
}

// getLogWriter 指定日志写入位置（文件和控制台）
func getLogWriter(filename string) zapcore.WriteSyncer {
	if filename == "" {
		return zapcore.AddSync(os.Stdout)
	}

	// 使用 lumberjack 实现日志切割和归档
	lumberJackLogger := &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    10, // MB
		MaxBackups: 5,
		MaxAge:     30, // 天
		Compress:   false,
	}
	return zapcore.NewMultiWriteSyncer(zapcore.AddSync(os.Stdout), zapcore.AddSync(lumberJackLogger))
}
