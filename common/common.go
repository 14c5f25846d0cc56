// /home/krylon/go/src/github.com/blicero/iris/common/common.go
// -*- mode: go; coding: utf-8; -*-
// Created on 03. 02. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-04-18 19:52:06 krylon>

// Package common provides constants and helpers used throughout
// the application: paths, the logging setup, timestamp formats.
package common

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/blicero/iris/logdomain"
	"github.com/blicero/krylib"
	"github.com/hashicorp/logutils"
	uuid "github.com/odeke-em/go-uuid"
)

//go:generate ./build_time_stamp.pl

// AppName is the name the application is known by.
// Version is the version number, and Debug, if true, causes the application
// to log rather verbosely.
const (
	AppName                  = "Iris"
	Version                  = "0.3.1"
	Debug                    = true
	TimestampFormat          = "2006-01-02 15:04:05"
	TimestampFormatMinute    = "2006-01-02 15:04"
	TimestampFormatSubSecond = "2006-01-02 15:04:05.0000 MST"
	TimestampFormatTime      = "15:04:05"
	TimestampFormatDate      = "2006-01-02"
	DefaultPort              = 7203
)

// LogLevels are the names of the log levels supported by the logger.
var LogLevels = []logutils.LogLevel{
	"TRACE",
	"DEBUG",
	"INFO",
	"WARN",
	"ERROR",
	"CRITICAL",
	"CANTHAPPEN",
	"SILENT",
}

// PackageLevels defines minimum log levels per package.
var PackageLevels = make(map[logdomain.ID]logutils.LogLevel, len(logdomain.AllDomains()))

func init() {
	minLevel := "TRACE"
	if !Debug {
		minLevel = "INFO"
	}

	for _, dom := range logdomain.AllDomains() {
		PackageLevels[dom] = logutils.LogLevel(minLevel)
	}
} // func init()

// BaseDir is the directory where all application-specific files
// (database, log files, ...) reside.
var BaseDir = filepath.Join(
	os.Getenv("HOME"),
	fmt.Sprintf(".%s.d", strings.ToLower(AppName)))

// LogPath returns the filesystem path of the log file.
func LogPath() string {
	return filepath.Join(BaseDir, strings.ToLower(AppName)+".log")
} // func LogPath() string

// DbPath returns the filesystem path of the database.
func DbPath() string {
	return filepath.Join(BaseDir, strings.ToLower(AppName)+".db")
} // func DbPath() string

// SetBaseDir sets the BaseDir and related paths and creates the
// directory if it does not exist already.
func SetBaseDir(path string) error {
	fmt.Printf("Setting BaseDir to %s\n", path)

	BaseDir = path

	if err := InitApp(); err != nil {
		fmt.Printf("Error initializing application environment: %s\n",
			err.Error())
		return err
	}

	return nil
} // func SetBaseDir(path string) error

// InitApp performs some basic preparations for the application to run.
// Currently, this means creating the BaseDir if it does not exist.
func InitApp() error {
	var err error

	if err = os.Mkdir(BaseDir, 0700); err != nil {
		if !os.IsExist(err) {
			return fmt.Errorf("Error creating BaseDir %s: %s",
				BaseDir,
				err.Error())
		}
	}

	return nil
} // func InitApp() error

// GetLogger tries to create a Logger for the given log domain.
func GetLogger(dom logdomain.ID) (*log.Logger, error) {
	var (
		err     error
		logfile *os.File
		name    = fmt.Sprintf("%s.%s",
			AppName,
			dom)
	)

	if err = InitApp(); err != nil {
		return nil, fmt.Errorf("Error initializing application environment: %s",
			err.Error())
	}

	var logPath = LogPath()

	if logfile, err = openLogFile(logPath); err != nil {
		return nil, err
	}

	var writer = io.MultiWriter(os.Stdout, logfile)
	var filter = &logutils.LevelFilter{
		Levels:   LogLevels,
		MinLevel: PackageLevels[dom],
		Writer:   writer,
	}

	var logger = log.New(filter, name+" ", log.Ldate|log.Ltime|log.Lshortfile)

	return logger, nil
} // func GetLogger(dom logdomain.ID) (*log.Logger, error)

func openLogFile(path string) (*os.File, error) {
	var (
		err    error
		exists bool
		file   *os.File
	)

	if exists, err = krylib.Fexists(path); err != nil {
		return nil, fmt.Errorf("Error checking if log file %s exists: %s",
			path,
			err.Error())
	} else if exists {
		file, err = os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0600)
	} else {
		file, err = os.Create(path)
	}

	if err != nil {
		return nil, fmt.Errorf("Error opening log file %s: %s",
			path,
			err.Error())
	}

	return file, nil
} // func openLogFile(path string) (*os.File, error)

// GetUUID returns a randomized UUID
func GetUUID() string {
	return uuid.NewRandom().String()
} // func GetUUID() string

// TimeEqual returns true if the two timestamps are less than one second apart.
func TimeEqual(t1, t2 time.Time) bool {
	var delta = t1.Sub(t2)

	if delta < 0 {
		delta = -delta
	}

	return delta < time.Second
} // func TimeEqual(t1, t2 time.Time) bool
