package sqlinline

const QUpsertVideoJob = `--sql a054cc66-d3fa-4f56-b9cf-69c87c8509e7
insert into video_jobs (
    owner_id, subject_id, provider_job_id, phase, result_uri, failure_reason,
    submitted_at, finished_at, updated_at
)
values ($1::text, $2::text, $3::text, $4::text, $5::text, $6::text, coalesce($7::timestamptz, now()), $8::timestamptz, now())
on conflict (owner_id, subject_id) do update set
    provider_job_id = coalesce(nullif(excluded.provider_job_id, ''), video_jobs.provider_job_id),
    phase = excluded.phase,
    result_uri = excluded.result_uri,
    failure_reason = excluded.failure_reason,
    submitted_at = excluded.submitted_at,
    finished_at = excluded.finished_at,
    updated_at = now(),
    last_checked_at = null
returning owner_id, subject_id, provider_job_id, phase, result_uri, failure_reason,
    submitted_at, finished_at, updated_at;
`

// QUpsertVideoJobIfInProgress only overwrites a row that is still in progress
// for the expected provider job; no row is returned when the guard fails.
const QUpsertVideoJobIfInProgress = `--sql 4c48d27f-68bb-427f-b848-5560a9306ab7
insert into video_jobs (
    owner_id, subject_id, provider_job_id, phase, result_uri, failure_reason,
    submitted_at, finished_at, updated_at
)
values ($1::text, $2::text, $3::text, $4::text, $5::text, $6::text, coalesce($7::timestamptz, now()), $8::timestamptz, now())
on conflict (owner_id, subject_id) do update set
    provider_job_id = coalesce(nullif(excluded.provider_job_id, ''), video_jobs.provider_job_id),
    phase = excluded.phase,
    result_uri = excluded.result_uri,
    failure_reason = excluded.failure_reason,
    submitted_at = excluded.submitted_at,
    finished_at = excluded.finished_at,
    updated_at = now()
where video_jobs.phase = 'in_progress'
  and video_jobs.provider_job_id = $9::text
returning owner_id, subject_id, provider_job_id, phase, result_uri, failure_reason,
    submitted_at, finished_at, updated_at;
`

const QSelectVideoJob = `--sql 574c52ef-27c9-4900-831f-4584e226c963
select owner_id, subject_id, provider_job_id, phase, result_uri, failure_reason,
    submitted_at, finished_at, updated_at
from video_jobs
where owner_id = $1::text
  and subject_id = $2::text;
`

const QListVideoJobsByOwner = `--sql 0a2f45c5-3adb-426e-a25c-6746d6ce6f42
select v.owner_id, v.subject_id, v.provider_job_id, v.phase, v.result_uri, v.failure_reason,
    v.submitted_at, v.finished_at, v.updated_at,
    coalesce(t.topic, 'Unknown Topic') as subject_name
from video_jobs v
left join content_topics t on t.id::text = v.subject_id
where v.owner_id = $1::text
order by v.submitted_at desc;
`

// QListStaleVideoJobs orders by the last sweep check so jobs that stay
// pending rotate behind ones not yet looked at.
const QListStaleVideoJobs = `--sql 7e70f73b-df73-4bcf-990c-22f5b6051083
select owner_id, subject_id, provider_job_id, phase, result_uri, failure_reason,
    submitted_at, finished_at, updated_at
from video_jobs
where phase = 'in_progress'
  and provider_job_id <> ''
  and coalesce(last_checked_at, updated_at) < $1::timestamptz
order by coalesce(last_checked_at, updated_at) asc, updated_at asc
limit $2::int;
`

const QMarkVideoJobChecked = `--sql 3f1d9b62-8c4e-4a57-9e0b-d27a6c51f804
update video_jobs
set last_checked_at = $3::timestamptz
where owner_id = $1::text
  and subject_id = $2::text
  and phase = 'in_progress';
`

// QSelectVideoScript returns the newest X template body for a topic.
const QSelectVideoScript = `--sql a0ae4caf-b34b-479e-8c54-19166d9d3ad6
select content
from content_templates
where user_id = $1::text
  and topic_id::text = $2::text
  and platform = 'x'
order by created_at desc
limit 1;
`
