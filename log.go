package iview

import "github.com/sirupsen/logrus"

var logger = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.WarnLevel)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return l
}

// SetLogger replaces the package logger. Hosts that want cache and prefetch
// chatter can install a logger at debug level.
func SetLogger(l *logrus.Logger) {
	if l != nil {
		logger = l
	}
}
