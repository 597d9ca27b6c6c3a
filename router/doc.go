// Copyright 2025 ZoomRx, Inc.
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


// Package router dispatches classified queries to the tool that can
// answer them and shields callers from tool failures.
//
// Each category maps to one Handler. Routing always produces a
// ToolResult: a handler error carrying an upstream or timeout failure
// becomes a degraded result instead of propagating, and ambiguous
// queries go to the clarify handler. The retrieval handler, which
// serves research questions from the indexed corpus, also lives here.
package router
