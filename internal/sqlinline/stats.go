package sqlinline

const QStatsSummary = `--sql a9856e63-c716-49f1-bac5-8ec1da9db0dd
select
  (select count(*) from content_topics where user_id = $1::text)::int as topics_total,
  (select count(*) from content_topics where user_id = $1::text and status = 'templates_generated')::int as topics_expanded,
  (select count(*) from content_templates where user_id = $1::text)::int as templates_total,
  (select count(*) from scheduled_posts where user_id = $1::text and status = 'scheduled' and scheduled_at > now())::int as posts_upcoming,
  (select count(*) from video_jobs where owner_id = $1::text and phase = 'in_progress')::int as videos_in_progress,
  (select count(*) from video_jobs where owner_id = $1::text and phase = 'completed')::int as videos_completed,
  (select count(*) from video_jobs where owner_id = $1::text and phase = 'failed')::int as videos_failed;
`
