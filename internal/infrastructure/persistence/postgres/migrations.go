// Package postgres implements PostgreSQL persistence layer for the
// residency training hub.
package postgres

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 001: CREATE RESIDENTS
// ══════════════════════════════════════════════════════════════════════════════

const migration001Up = `
-- Migration: Create residents table
-- Version: 001

CREATE TABLE IF NOT EXISTS residents (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    email VARCHAR(255) NOT NULL UNIQUE,
    password_hash VARCHAR(100) NOT NULL,
    full_name VARCHAR(200) NOT NULL,
    license_number VARCHAR(20) NOT NULL DEFAULT '',
    status VARCHAR(20) NOT NULL DEFAULT 'active',
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_resident_status CHECK (status IN ('active', 'suspended', 'graduated'))
);

CREATE INDEX IF NOT EXISTS idx_residents_email ON residents(email);
CREATE INDEX IF NOT EXISTS idx_residents_status ON residents(status);
`


// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 002: CREATE SPECIALIZATIONS AND MODULES
// ══════════════════════════════════════════════════════════════════════════════

const migration002Up = `
-- Migration: Create specializations and modules
-- Version: 002

CREATE TABLE IF NOT EXISTS specializations (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    resident_id UUID NOT NULL REFERENCES residents(id) ON DELETE CASCADE,
    name VARCHAR(200) NOT NULL,
    program_code VARCHAR(8) NOT NULL,
    smk_version VARCHAR(8) NOT NULL,
    start_date DATE NOT NULL,
    nominal_duration_days INTEGER NOT NULL,
    planned_end_date DATE NOT NULL,
    counters JSONB NOT NULL DEFAULT '{}'::jsonb,
    archived BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_smk_version CHECK (smk_version IN ('old', 'new')),
    CONSTRAINT valid_duration CHECK (nominal_duration_days > 0)
);

CREATE INDEX IF NOT EXISTS idx_specializations_resident_id ON specializations(resident_id);
CREATE INDEX IF NOT EXISTS idx_specializations_program ON specializations(program_code, smk_version);
CREATE INDEX IF NOT EXISTS idx_specializations_active ON specializations(resident_id) WHERE NOT archived;

CREATE TABLE IF NOT EXISTS modules (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    specialization_id UUID NOT NULL REFERENCES specializations(id) ON DELETE CASCADE,
    name VARCHAR(200) NOT NULL,
    module_type VARCHAR(20) NOT NULL,
    smk_version VARCHAR(8) NOT NULL,
    template_code VARCHAR(50) NOT NULL,
    start_date DATE NOT NULL,
    nominal_duration_days INTEGER NOT NULL,
    end_date DATE NOT NULL,
    structure_snapshot JSONB NOT NULL DEFAULT '{}'::jsonb,
    counters JSONB NOT NULL DEFAULT '{}'::jsonb,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_module_type CHECK (module_type IN ('basic', 'specialistic')),
    CONSTRAINT valid_module_duration CHECK (nominal_duration_days > 0)
);

CREATE INDEX IF NOT EXISTS idx_modules_specialization_id ON modules(specialization_id);
`


// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 003: CREATE TRAINING RECORDS
// ══════════════════════════════════════════════════════════════════════════════

const migration003Up = `
-- Migration: Create training record tables
-- Version: 003

CREATE TABLE IF NOT EXISTS internships (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    module_id UUID NOT NULL REFERENCES modules(id) ON DELETE CASCADE,
    specialization_id UUID NOT NULL REFERENCES specializations(id) ON DELETE CASCADE,
    name VARCHAR(300) NOT NULL,
    institution VARCHAR(300) NOT NULL DEFAULT '',
    department VARCHAR(300) NOT NULL DEFAULT '',
    start_date DATE NOT NULL,
    end_date DATE NOT NULL,
    planned_days INTEGER NOT NULL DEFAULT 0,
    is_completed BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_internships_module_id ON internships(module_id);
CREATE INDEX IF NOT EXISTS idx_internships_specialization_id ON internships(specialization_id);

CREATE TABLE IF NOT EXISTS medical_shifts (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    internship_id UUID NOT NULL REFERENCES internships(id) ON DELETE CASCADE,
    shift_date TIMESTAMP WITH TIME ZONE NOT NULL,
    duration_hours INTEGER NOT NULL DEFAULT 0,
    -- Minutes are stored as entered and may exceed 59; normalization
    -- happens only at display and aggregation time.
    duration_minutes INTEGER NOT NULL DEFAULT 0,
    location VARCHAR(300) NOT NULL DEFAULT '',
    sync_status VARCHAR(20) NOT NULL DEFAULT 'not_synced',
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_shift_sync CHECK (sync_status IN ('not_synced', 'submitted', 'approved', 'rejected')),
    CONSTRAINT valid_shift_duration CHECK (duration_hours >= 0 AND duration_minutes >= 0)
);

CREATE INDEX IF NOT EXISTS idx_shifts_internship_id ON medical_shifts(internship_id);
CREATE INDEX IF NOT EXISTS idx_shifts_internship_date ON medical_shifts(internship_id, shift_date);

CREATE TABLE IF NOT EXISTS procedures (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    internship_id UUID NOT NULL REFERENCES internships(id) ON DELETE CASCADE,
    module_id UUID NOT NULL REFERENCES modules(id) ON DELETE CASCADE,
    procedure_date DATE NOT NULL,
    code VARCHAR(50) NOT NULL,
    role CHAR(1) NOT NULL,
    status VARCHAR(30) NOT NULL DEFAULT 'pending',
    smk_version VARCHAR(8) NOT NULL,
    performing_person VARCHAR(200) NOT NULL DEFAULT '',
    supervisor VARCHAR(200) NOT NULL DEFAULT '',
    training_year INTEGER NOT NULL DEFAULT 0,
    requirement_id VARCHAR(100) NOT NULL DEFAULT '',
    location VARCHAR(300) NOT NULL DEFAULT '',
    patient_initials VARCHAR(10) NOT NULL DEFAULT '',
    sync_status VARCHAR(20) NOT NULL DEFAULT 'not_synced',
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_role CHECK (role IN ('A', 'B')),
    CONSTRAINT valid_procedure_status CHECK (status IN ('pending', 'completed', 'partially_completed', 'approved', 'not_approved')),
    CONSTRAINT valid_procedure_sync CHECK (sync_status IN ('not_synced', 'submitted', 'approved', 'rejected')),
    CONSTRAINT valid_training_year CHECK (training_year >= 0)
);

CREATE INDEX IF NOT EXISTS idx_procedures_internship_id ON procedures(internship_id);
CREATE INDEX IF NOT EXISTS idx_procedures_module_id ON procedures(module_id);
-- Same-day duplicate detection counts records by (internship, code, date).
CREATE INDEX IF NOT EXISTS idx_procedures_code_date ON procedures(internship_id, code, procedure_date);

CREATE TABLE IF NOT EXISTS courses (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    module_id UUID NOT NULL REFERENCES modules(id) ON DELETE CASCADE,
    specialization_id UUID NOT NULL REFERENCES specializations(id) ON DELETE CASCADE,
    name VARCHAR(300) NOT NULL,
    kind VARCHAR(20) NOT NULL DEFAULT 'obligatory',
    start_date DATE NOT NULL,
    end_date DATE NOT NULL,
    is_completed BOOLEAN NOT NULL DEFAULT FALSE,
    counts_toward_required BOOLEAN NOT NULL DEFAULT TRUE,
    certificate_number VARCHAR(100) NOT NULL DEFAULT '',
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_course_kind CHECK (kind IN ('obligatory', 'attestation', 'optional'))
);

CREATE INDEX IF NOT EXISTS idx_courses_module_id ON courses(module_id);
CREATE INDEX IF NOT EXISTS idx_courses_specialization_id ON courses(specialization_id);

CREATE TABLE IF NOT EXISTS self_education (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    specialization_id UUID NOT NULL REFERENCES specializations(id) ON DELETE CASCADE,
    title VARCHAR(300) NOT NULL,
    kind VARCHAR(20) NOT NULL DEFAULT 'other',
    activity_date DATE NOT NULL,
    duration_days INTEGER NOT NULL DEFAULT 1,
    counts_toward_required BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_self_education_kind CHECK (kind IN ('conference', 'workshop', 'literature', 'other'))
);

CREATE INDEX IF NOT EXISTS idx_self_education_specialization_id ON self_education(specialization_id);

CREATE TABLE IF NOT EXISTS absences (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    specialization_id UUID NOT NULL REFERENCES specializations(id) ON DELETE CASCADE,
    kind VARCHAR(30) NOT NULL,
    start_date DATE NOT NULL,
    end_date DATE NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_absence_kind CHECK (kind IN ('sick_leave', 'maternity_leave', 'paternity_leave', 'recognition', 'vacation', 'unpaid', 'training', 'other')),
    CONSTRAINT valid_absence_window CHECK (end_date >= start_date)
);

CREATE INDEX IF NOT EXISTS idx_absences_specialization_id ON absences(specialization_id);

CREATE TABLE IF NOT EXISTS publications (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    specialization_id UUID NOT NULL REFERENCES specializations(id) ON DELETE CASCADE,
    title VARCHAR(500) NOT NULL,
    kind VARCHAR(20) NOT NULL DEFAULT 'article',
    publication_date DATE NOT NULL,
    counts_toward_required BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_publication_kind CHECK (kind IN ('article', 'abstract', 'chapter'))
);

CREATE INDEX IF NOT EXISTS idx_publications_specialization_id ON publications(specialization_id);
`

