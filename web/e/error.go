/*
 * Copyright 2024 caiflower Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package e

import (
	"errors"
	"fmt"
)

type ServeError interface {
	error
	GetCode() int
	GetType() string
	GetMessage() string
	GetCause() error
	Unwrap() error
}

type serveError struct {
	Code    int
	Type    string
	Message string
	Cause   error
}

func (e *serveError) GetCode() int {
	return e.Code
}

func (e *serveError) GetType() string {
	return e.Type
}

func (e *serveError) GetMessage() string {
	return e.Message
}

func (e *serveError) GetCause() error {
	return e.Cause
}

func (e *serveError) Unwrap() error {
	return e.Cause
}

func (e *serveError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", e.Type, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Type, e.Message, e.Cause.Error())
}

// ErrorCode is the HTTP status a failure maps to when it reaches a client.
type ErrorCode struct {
	Code int
	Type string
}

var (
	MalformedRequest = &ErrorCode{Code: 400, Type: "MalformedRequest"}
	PathTraversal    = &ErrorCode{Code: 404, Type: "PathTraversal"}
	NotFoundOnDisk   = &ErrorCode{Code: 404, Type: "NotFoundOnDisk"}
	FilesystemError  = &ErrorCode{Code: 500, Type: "FilesystemError"}
	RenderError      = &ErrorCode{Code: 500, Type: "RenderError"}

	// programming errors
	AlreadySent   = &ErrorCode{Code: 500, Type: "AlreadySent"}
	InvalidStatus = &ErrorCode{Code: 500, Type: "InvalidStatus"}
)

func New(errCode *ErrorCode, msg string, cause error) ServeError {
	return &serveError{
		Code:    errCode.Code,
		Type:    errCode.Type,
		Message: msg,
		Cause:   cause,
	}
}

func Newf(errCode *ErrorCode, format string, v ...interface{}) ServeError {
	return New(errCode, fmt.Sprintf(format, v...), nil)
}

// Is reports whether any error in err's chain is a ServeError of the given code.
func Is(err error, errCode *ErrorCode) bool {
	var se ServeError
	for err != nil {
		if !errors.As(err, &se) {
			return false
		}
		if se.GetType() == errCode.Type {
			return true
		}
		err = se.GetCause()
	}
	return false
}
