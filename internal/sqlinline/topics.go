package sqlinline

const QInsertTopic = `--sql 7d0f9d2a-34c3-4f9e-8b80-67b78efc1e5b
insert into content_topics (user_id, topic, status)
values ($1::text, $2::text, $3::text)
returning id::text, user_id, topic, status, target_audience, tone, improved_at, created_at, updated_at;
`

// An empty status array lists every status.
const QListTopics = `--sql d66e5151-99bb-4cd6-9557-6e48a680c864
select id::text, user_id, topic, status, target_audience, tone, improved_at, created_at, updated_at
from content_topics
where user_id = $1::text
  and (cardinality($2::text[]) = 0 or status = any($2::text[]))
order by created_at desc;
`

const QSelectTopic = `--sql 46b405e5-e48c-4d2b-b917-903fbd26c47a
select id::text, user_id, topic, status, target_audience, tone, improved_at, created_at, updated_at
from content_topics
where id::text = $1::text
  and user_id = $2::text;
`

const QUpdateTopicStatus = `--sql 47a7889c-ef92-437b-94e3-a48a03db7396
update content_topics
set status = $3::text,
    updated_at = now()
where id::text = $1::text
  and user_id = $2::text
returning id::text, user_id, topic, status, target_audience, tone, improved_at, created_at, updated_at;
`

// QImproveTopic rewrites a topic at most once; no row is returned when it
// was already improved.
const QImproveTopic = `--sql c5e2a7d4-1b93-4f60-a8de-93f4b07c2e15
update content_topics
set topic = $3::text,
    target_audience = coalesce(nullif($4::text, ''), target_audience),
    tone = coalesce(nullif($5::text, ''), tone),
    improved_at = now(),
    updated_at = now()
where id::text = $1::text
  and user_id = $2::text
  and improved_at is null
returning id::text, user_id, topic, status, target_audience, tone, improved_at, created_at, updated_at;
`

const QCountTopicsByStatus = `--sql 06702bc4-3ba2-417a-a56d-920f59f3917d
select status, count(*)::int
from content_topics
where user_id = $1::text
group by status;
`
