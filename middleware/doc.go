// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP cross-cutting helpers.

  - WithLogging: request start/completion logging via slog
  - JSONResponse / ErrorResponse: response encoding with the standard
    {error, message} error body
  - ParseJSONBody: request decoding
  - CORS: permissive cross-origin headers plus preflight handling
  - GetClientIP: client address extraction (X-Forwarded-For, X-Real-IP,
    RemoteAddr) - this string doubles as the anonymous voter identity,
    so its resolution order is part of the voting contract
*/
package middleware
