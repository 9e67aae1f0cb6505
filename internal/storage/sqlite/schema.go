// ABOUTME: SQLite database schema for the tribe store
// ABOUTME: Creates accounts, points log and community content tables with indexes
package sqlite

// Schema contains all SQL statements for database initialization
const Schema = `
-- Points accounts, one per user; tier is derived, never stored
CREATE TABLE IF NOT EXISTS accounts (
    user_id TEXT PRIMARY KEY,
    username TEXT NOT NULL,
    total_points INTEGER NOT NULL DEFAULT 0 CHECK (total_points >= 0),
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Points history (one row per credit)
CREATE TABLE IF NOT EXISTS points_log (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL REFERENCES accounts(user_id) ON DELETE CASCADE,
    kind TEXT NOT NULL,
    delta INTEGER NOT NULL,
    applied INTEGER NOT NULL,
    description TEXT,
    reference_id TEXT,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Posts; author_badge is the flair the author held when posting
CREATE TABLE IF NOT EXISTS posts (
    id TEXT PRIMARY KEY,
    author_id TEXT NOT NULL,
    author_name TEXT,
    author_badge TEXT,
    title TEXT,
    content TEXT NOT NULL,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Like sets: presence of a row means the user likes the post
CREATE TABLE IF NOT EXISTS post_likes (
    post_id TEXT NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
    user_id TEXT NOT NULL,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (post_id, user_id)
);

-- Comments on posts
CREATE TABLE IF NOT EXISTS comments (
    id TEXT PRIMARY KEY,
    post_id TEXT NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
    author_id TEXT NOT NULL,
    content TEXT NOT NULL,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- At most one emoji reaction per user per target
CREATE TABLE IF NOT EXISTS reactions (
    user_id TEXT NOT NULL,
    target_kind TEXT NOT NULL,
    target_id TEXT NOT NULL,
    emoji TEXT NOT NULL,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (user_id, target_kind, target_id)
);

-- Indexes for efficient querying
CREATE INDEX IF NOT EXISTS idx_points_log_user ON points_log(user_id, created_at);
CREATE INDEX IF NOT EXISTS idx_posts_created ON posts(created_at);
CREATE INDEX IF NOT EXISTS idx_comments_post ON comments(post_id, created_at);
CREATE INDEX IF NOT EXISTS idx_reactions_target ON reactions(target_kind, target_id);
`

// SchemaVersion is the current schema version for migrations
const SchemaVersion = 1
