package store

const schema = `
PRAGMA foreign_keys = ON;

-- One row per semester screenshot that was imported
CREATE TABLE IF NOT EXISTS semesters (
    semester_id INTEGER PRIMARY KEY AUTOINCREMENT,
    semester_name TEXT NOT NULL UNIQUE,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

-- Student count per grade, position is the index in the grade scale
CREATE TABLE IF NOT EXISTS grade_counts (
    semester_id INTEGER NOT NULL,
    grade TEXT NOT NULL,
    position INTEGER NOT NULL,
    count INTEGER NOT NULL CHECK (count >= 0),
    PRIMARY KEY (semester_id, grade),
    FOREIGN KEY (semester_id) REFERENCES semesters(semester_id) ON DELETE CASCADE
);
`
