// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package schema

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/dismine/valentina-sub004/pkg/version"
	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// checkValue returns an empty string when v is a valid value of type t,
// otherwise a description of the problem.
func checkValue(t ValueType, enum []string, v string) string {
	switch t {
	case TypeString:
		return ""
	case TypeToken:
		if v == "" || strings.TrimSpace(v) != v {
			return fmt.Sprintf("must be a non-empty token, got %q", v)
		}
	case TypeDouble:
		if !isNumber(v) {
			return fmt.Sprintf("must be a number, got %q", v)
		}
	case TypeUint:
		if _, err := strconv.ParseUint(strings.TrimSpace(v), 10, 32); err != nil {
			return fmt.Sprintf("must be a non-negative integer, got %q", v)
		}
	case TypeBool:
		switch strings.TrimSpace(v) {
		case "true", "false", "1", "0":
		default:
			return fmt.Sprintf("must be a boolean, got %q", v)
		}
	case TypeVersion:
		if _, err := version.Parse(v); err != nil {
			return fmt.Sprintf("must be a version: %v", err)
		}
	case TypeDate:
		if _, err := time.Parse(dateLayout, strings.TrimSpace(v)); err != nil {
			return fmt.Sprintf("must be a YYYY-MM-DD date, got %q", v)
		}
	case TypeEnum:
		if !slices.Contains(enum, strings.TrimSpace(v)) {
			return fmt.Sprintf("must be one of [%s], got %q", strings.Join(enum, ", "), v)
		}
	case TypeList:
		return checkList(v, ";")
	case TypeCSV:
		return checkList(v, ",")
	case TypeUUID:
		if _, err := uuid.Parse(strings.TrimSpace(v)); err != nil {
			return fmt.Sprintf("must be a UUID, got %q", v)
		}
	default:
		return fmt.Sprintf("has unknown schema type %q", t)
	}
	return ""
}

func isNumber(v string) bool {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	return err == nil && !math.IsNaN(f) && !math.IsInf(f, 0)
}

func checkList(v, sep string) string {
	if strings.TrimSpace(v) == "" {
		return ""
	}
	for _, part := range strings.Split(v, sep) {
		if !isNumber(part) {
			return fmt.Sprintf("must be a %q separated list of numbers, got %q", sep, v)
		}
	}
	return ""
}
